package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/nls/pkg/grammar"
	"github.com/aretw0/nls/pkg/service"
)

// HelpMarkdown renders a help result as a markdown document.
func HelpMarkdown(h service.HelpResult) string {
	var sb strings.Builder
	sb.WriteString("# NLS commands\n\n")
	sb.WriteString(grammar.Markdown())

	sb.WriteString("\n## Unit templates\n\n")
	if len(h.Templates) == 0 {
		sb.WriteString("_No templates loaded._\n")
	}
	for _, t := range h.Templates {
		fmt.Fprintf(&sb, "- **%s**", t.Template)
		if len(t.Synonyms) > 0 {
			fmt.Fprintf(&sb, ": %s", strings.Join(t.Synonyms, ", "))
		}
		sb.WriteString("\n")
		for _, p := range t.Parameters {
			fmt.Fprintf(&sb, "  - `%s`", p.Key)
			if p.Type != "" {
				fmt.Fprintf(&sb, " (%s)", p.Type)
			}
			if len(p.Synonyms) > 0 {
				fmt.Fprintf(&sb, ": %s", strings.Join(p.Synonyms, ", "))
			}
			sb.WriteString("\n")
		}
	}

	if len(h.UnknownTemplates) > 0 {
		sb.WriteString("\n## Templates not in the ontology\n\n")
		for _, t := range h.UnknownTemplates {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}
	return sb.String()
}
