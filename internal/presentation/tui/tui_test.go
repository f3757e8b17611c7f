package tui

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/service"
)

func TestPrinter_Patch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, termenv.WithProfile(termenv.Ascii))

	p.Patch(domain.Patch{
		domain.Remove("/streams/0"),
		domain.Add("/units/-", domain.UnitInstance{Template: "Centrifuge_v1", ID: "centrifuge_v1"}),
	})

	assert.Equal(t,
		"remove  /streams/0\n"+
			`add     /units/- {"template":"Centrifuge_v1","id":"centrifuge_v1"}`+"\n",
		buf.String())

	buf.Reset()
	p.Patch(nil)
	assert.Equal(t, "(no changes)\n", buf.String())
}

func TestPrinter_Diff(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, termenv.WithProfile(termenv.Ascii))

	p.Diff(&domain.ScenarioDiff{
		AddedUnits:     []string{"cen"},
		ChangedUnits:   []domain.UnitChange{{ID: "dsp04", Template: &domain.TemplateChange{From: "A", To: "B"}}},
		RemovedStreams: []domain.StreamLink{{From: "fer01", To: "dsp04"}},
	})
	out := buf.String()
	assert.Contains(t, out, "+ unit cen\n")
	assert.Contains(t, out, "~ unit dsp04 template A -> B\n")
	assert.Contains(t, out, "- stream fer01 -> dsp04\n")

	buf.Reset()
	p.Diff(&domain.ScenarioDiff{})
	assert.Empty(t, buf.String())
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown(service.HelpResult{
		Templates: []service.TemplateInfo{{
			Template:   "ProteinA_Capture_v1",
			Synonyms:   []string{"protein a"},
			Parameters: []ontology.Parameter{{Key: "cycles", Type: "int", Synonyms: []string{"cycle count"}}},
		}},
		UnknownTemplates: []string{"Mystery_v9"},
	})

	assert.Contains(t, md, "- **ProteinA_Capture_v1**: protein a")
	assert.Contains(t, md, "  - `cycles` (int): cycle count")
	assert.Contains(t, md, "## Templates not in the ontology")
	assert.Contains(t, md, "- Mystery_v9")
	assert.Contains(t, md, "| connect |")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "natural-language scenario editing 0.1.0")
}
