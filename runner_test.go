package nls_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nls"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ports"
)

func runShell(t *testing.T, engine *nls.Engine, script string, sc domain.Scenario) (domain.Scenario, string) {
	t.Helper()
	var out bytes.Buffer
	sh := nls.NewShell()
	sh.Input = strings.NewReader(script)
	sh.Output = &out
	sh.Headless = true

	final, err := sh.Run(context.Background(), engine, sc)
	require.NoError(t, err)
	return final, out.String()
}

func TestShell_AppliesCommands(t *testing.T) {
	engine, err := nls.New(context.Background(), "")
	require.NoError(t, err)

	start := domain.Scenario{Units: []domain.UnitInstance{{Template: "AEX_Membrane_v1", ID: "dsp04"}}}
	final, out := runShell(t, engine, strings.Join([]string{
		"replace aex membrane with chitosan capture",
		"",
		"make it faster",
		"remove ghost",
		":preview set ph=4.4 on dsp04",
		":quit",
		"remove dsp04",
	}, "\n"), start)

	assert.Equal(t, "ChitosanCapture_v1", final.Units[0].Template)
	assert.Equal(t, "AEX_Membrane_v1", start.Units[0].Template)
	assert.Contains(t, out, "replace /units/0/template")
	assert.Contains(t, out, "~ unit dsp04 template AEX_Membrane_v1 -> ChitosanCapture_v1")
	assert.Contains(t, out, "error: command not understood")
	assert.Contains(t, out, `error: unit "ghost": not found`)
	assert.Contains(t, out, "add     /units/0/overrides/target_pH 4.4")
	assert.NotContains(t, out, "Bye!")
}

func TestShell_Undo(t *testing.T) {
	engine, err := nls.New(context.Background(), "")
	require.NoError(t, err)

	final, out := runShell(t, engine, "add fermenter\nadd centrifuge after fermenter\n:undo\n:undo\n:undo\n", domain.Scenario{})
	assert.Empty(t, final.Units)
	assert.Equal(t, 2, strings.Count(out, "undone"))
	assert.Contains(t, out, "nothing to undo")
}

func TestShell_ShowGraphHelp(t *testing.T) {
	engine, err := nls.New(context.Background(), "")
	require.NoError(t, err)

	sc := domain.Scenario{
		Units:   []domain.UnitInstance{{Template: "Fermenter_v1", ID: "fer01"}, {Template: "Centrifuge_v1", ID: "cen01"}},
		Streams: []domain.StreamLink{{From: "fer01", To: "cen01"}},
	}
	_, out := runShell(t, engine, ":show\n:graph\n:help\n", sc)

	assert.Contains(t, out, `"id": "fer01"`)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "fer01 --> cen01")
	assert.Contains(t, out, "# NLS commands")
}

func TestShell_Run(t *testing.T) {
	sim := ports.SimulatorFunc(func(_ context.Context, sc domain.Scenario, req domain.RunRequest) (domain.KPIs, error) {
		return domain.KPIs{"cogs": 42, "samples": req.Samples}, nil
	})
	engine, err := nls.New(context.Background(), "", nls.WithSimulator(sim))
	require.NoError(t, err)

	sc := domain.Scenario{Units: []domain.UnitInstance{{Template: "Fermenter_v1", ID: "fer01"}}}
	_, out := runShell(t, engine, "run sobol n=16\n", sc)
	assert.Contains(t, out, `"cogs": 42`)
	assert.Contains(t, out, `"samples": 16`)
}

func TestShell_RequiresIO(t *testing.T) {
	engine, err := nls.New(context.Background(), "")
	require.NoError(t, err)

	_, err = nls.NewShell().Run(context.Background(), engine, domain.Scenario{})
	assert.Error(t, err)
}
