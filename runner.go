package nls

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/nls/internal/presentation/graph"
	"github.com/aretw0/nls/internal/presentation/tui"
	"github.com/aretw0/nls/pkg/domain"
)

// Shell is an interactive command loop over one Scenario.
// Each line is a command applied to the current Scenario; lines starting with
// ':' are shell directives (:show, :graph, :preview, :undo, :help, :quit).
type Shell struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms markdown before it is printed (e.g. glamour).
type ContentRenderer func(string) (string, error)

// NewShell creates a Shell. Input and Output must be set before Run.
func NewShell() *Shell {
	return &Shell{}
}

// Run executes the loop until :quit, EOF or ctx is done, and returns the final Scenario.
// A failed command leaves the Scenario untouched and the loop continues.
func (sh *Shell) Run(ctx context.Context, engine *Engine, sc domain.Scenario) (domain.Scenario, error) {
	if sh.Input == nil {
		return sc, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if sh.Output == nil {
		return sc, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewScanner(sh.Input)
	w := sh.Output
	printer := tui.NewPrinter(w)

	var history []domain.Scenario

	if !sh.Headless {
		fmt.Fprintln(w, "--- NLS shell (:help for commands, :quit to exit) ---")
	}

	for {
		if ctx.Err() != nil {
			return sc, ctx.Err()
		}
		if !sh.Headless {
			fmt.Fprint(w, "> ")
		}
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return sc, fmt.Errorf("input error: %w", err)
			}
			return sc, nil
		}
		line := strings.TrimSpace(lines.Text())
		if line == "" {
			continue
		}

		directive, arg, _ := strings.Cut(line, " ")
		switch directive {
		case ":quit", ":q", "exit", "quit":
			if !sh.Headless {
				fmt.Fprintln(w, "Bye!")
			}
			return sc, nil
		case ":show":
			data, err := json.MarshalIndent(sc, "", "  ")
			if err != nil {
				return sc, err
			}
			fmt.Fprintln(w, string(data))
			continue
		case ":graph":
			fmt.Fprint(w, graph.GenerateMermaid(sc, nil))
			continue
		case ":undo":
			if len(history) == 0 {
				fmt.Fprintln(w, "nothing to undo")
				continue
			}
			sc = history[len(history)-1]
			history = history[:len(history)-1]
			fmt.Fprintln(w, "undone")
			continue
		case ":help":
			fmt.Fprintln(w, sh.render(tui.HelpMarkdown(engine.HelpFor(sc))))
			continue
		case ":preview":
			res, err := engine.Preview(ctx, arg, sc)
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			printer.Warnings(res.Warnings)
			printer.Patch(res.Patch)
			continue
		}

		if strings.EqualFold(directive, string(domain.IntentRun)) {
			res, err := engine.Run(ctx, line, sc)
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			data, _ := json.MarshalIndent(res.KPIs, "", "  ")
			fmt.Fprintln(w, string(data))
			continue
		}

		res, err := engine.Apply(ctx, line, sc)
		if err != nil {
			var unrecognized *domain.UnrecognizedError
			if errors.As(err, &unrecognized) {
				fmt.Fprintln(w, "error: command not understood (:help lists the grammar)")
				continue
			}
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		history = append(history, sc)
		sc = res.ScenarioAfter
		printer.Warnings(res.Warnings)
		printer.Patch(res.Patch)
		printer.Diff(res.Diff)
	}
}

func (sh *Shell) render(markdown string) string {
	if sh.Renderer == nil {
		return markdown
	}
	out, err := sh.Renderer(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(out)
}
