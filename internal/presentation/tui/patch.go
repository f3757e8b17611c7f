package tui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/nls/pkg/domain"
)

// Printer writes patches and diffs with terminal colors when the output supports them.
type Printer struct {
	out *termenv.Output
	w   io.Writer
}

// NewPrinter creates a Printer over w. Colors are detected from w.
func NewPrinter(w io.Writer, opts ...termenv.OutputOption) *Printer {
	return &Printer{out: termenv.NewOutput(w, opts...), w: w}
}

func (p *Printer) paint(s, color string) string {
	return p.out.String(s).Foreground(p.out.Color(color)).String()
}

// Patch prints one line per operation.
func (p *Printer) Patch(patch domain.Patch) {
	if len(patch) == 0 {
		fmt.Fprintln(p.w, p.out.String("(no changes)").Faint())
		return
	}
	for _, op := range patch {
		color := "#60a5fa"
		switch op.Op {
		case domain.OpAdd:
			color = "#34d399"
		case domain.OpRemove:
			color = "#f87171"
		}
		line := fmt.Sprintf("%-7s %s", op.Op, op.Path)
		if op.Op != domain.OpRemove {
			v, _ := json.Marshal(op.Value)
			line += " " + string(v)
		}
		fmt.Fprintln(p.w, p.paint(line, color))
	}
}

// Diff prints a unit and stream summary.
func (p *Printer) Diff(d *domain.ScenarioDiff) {
	if d == nil || d.IsEmpty() {
		return
	}
	for _, id := range d.AddedUnits {
		fmt.Fprintln(p.w, p.paint("+ unit "+id, "#34d399"))
	}
	for _, id := range d.RemovedUnits {
		fmt.Fprintln(p.w, p.paint("- unit "+id, "#f87171"))
	}
	for _, c := range d.ChangedUnits {
		line := "~ unit " + c.ID
		if c.Template != nil {
			line += fmt.Sprintf(" template %s -> %s", c.Template.From, c.Template.To)
		}
		if len(c.Overrides) > 0 {
			v, _ := json.Marshal(c.Overrides)
			line += " overrides " + string(v)
		}
		fmt.Fprintln(p.w, p.paint(line, "#fbbf24"))
	}
	for _, s := range d.AddedStreams {
		fmt.Fprintln(p.w, p.paint(fmt.Sprintf("+ stream %s -> %s", s.From, s.To), "#34d399"))
	}
	for _, s := range d.RemovedStreams {
		fmt.Fprintln(p.w, p.paint(fmt.Sprintf("- stream %s -> %s", s.From, s.To), "#f87171"))
	}
}

// Warnings prints editor warnings.
func (p *Printer) Warnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(p.w, p.paint("warning: "+w, "#fbbf24"))
	}
}
