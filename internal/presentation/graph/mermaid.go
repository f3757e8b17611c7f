package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/nls/pkg/domain"
)

// Overlay marks what a command changed so it can be highlighted on the flowsheet.
type Overlay struct {
	Added   []string
	Changed []string
	// NewStreams are drawn with a thick arrow.
	NewStreams []domain.StreamLink
}

// OverlayFromDiff builds an Overlay from an apply/batch diff.
func OverlayFromDiff(d *domain.ScenarioDiff) *Overlay {
	if d == nil {
		return nil
	}
	o := &Overlay{
		Added:      slices.Clone(d.AddedUnits),
		NewStreams: slices.Clone(d.AddedStreams),
	}
	for _, c := range d.ChangedUnits {
		o.Changed = append(o.Changed, c.ID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart (graph LR) of the Scenario.
// Shapes follow the stream topology:
// - Source (no inbound streams): ((Circle))
// - Sink (no outbound streams): [/Parallelogram/]
// - Default: [Rectangle]
// Unit labels show the id and the template.
func GenerateMermaid(s domain.Scenario, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	in := make(map[string]int)
	out := make(map[string]int)
	for _, st := range s.Streams {
		out[st.From]++
		in[st.To]++
	}

	for _, u := range s.Units {
		safeID := sanitizeMermaidID(u.ID)
		opener, closer := "[", "]"
		switch {
		case len(s.Streams) == 0:
		case in[u.ID] == 0:
			opener, closer = "((", "))"
		case out[u.ID] == 0:
			opener, closer = "[/", "/]"
		}
		label := escapeLabel(u.ID) + "<br/>" + escapeLabel(u.Template)
		if n := len(u.Overrides); n > 0 {
			label += fmt.Sprintf("<br/>%d override(s)", n)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	var fresh map[domain.StreamLink]int
	if overlay != nil {
		fresh = make(map[domain.StreamLink]int, len(overlay.NewStreams))
		for _, st := range overlay.NewStreams {
			fresh[st]++
		}
	}
	for _, st := range s.Streams {
		arrow := "-->"
		if fresh[st] > 0 {
			fresh[st]--
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(st.From), arrow, sanitizeMermaidID(st.To))
	}

	if overlay != nil && (len(overlay.Added) > 0 || len(overlay.Changed) > 0) {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes.
		sb.WriteString("    classDef added fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		writeClass(&sb, overlay.Added, "added")
		writeClass(&sb, overlay.Changed, "changed")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		fmt.Fprintf(sb, "    class %s %s;\n", safeID, class)
	}
}

var idReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "~", "_")

func sanitizeMermaidID(id string) string {
	return idReplacer.Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
