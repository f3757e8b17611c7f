package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/grammar"
	"github.com/aretw0/nls/pkg/ontology"
)

func testOntology() *ontology.Snapshot {
	return ontology.New(
		ontology.Entry{Template: "AEX_Membrane_v1", Synonyms: []string{"aex membrane"}},
		ontology.Entry{Template: "ChitosanCapture_v1", Synonyms: []string{"chitosan capture"}},
		ontology.Entry{Template: "Centrifuge_v1", Synonyms: []string{"centrifuge"}},
		ontology.Entry{Template: "Fermenter_v1", Synonyms: []string{"fermenter"}},
	)
}

func build(t *testing.T, s domain.Scenario, text string) (Result, error) {
	t.Helper()
	snap := testOntology()
	return New(snap).Build(grammar.NewParser(snap).Parse(text), s)
}

func mustBuild(t *testing.T, s domain.Scenario, text string) domain.Patch {
	t.Helper()
	res, err := build(t, s, text)
	require.NoError(t, err, text)
	return res.Patch
}

func units(ids ...string) []domain.UnitInstance {
	out := make([]domain.UnitInstance, len(ids))
	for i, id := range ids {
		out[i] = domain.UnitInstance{Template: "Centrifuge_v1", ID: id}
	}
	return out
}

func TestBuild_Replace(t *testing.T) {
	s := domain.Scenario{Units: []domain.UnitInstance{{Template: "AEX_Membrane_v1", ID: "dsp04"}}}

	p := mustBuild(t, s, "replace aex membrane with chitosan capture")
	assert.Equal(t, domain.Patch{
		domain.Replace("/units/0/template", "ChitosanCapture_v1"),
	}, p)

	byID := mustBuild(t, s, "replace dsp04 with centrifuge")
	assert.Equal(t, domain.Patch{domain.Replace("/units/0/template", "Centrifuge_v1")}, byID)
}

func TestBuild_ReplaceAmbiguousUsesFirstMatchAndWarns(t *testing.T) {
	s := domain.Scenario{Units: units("c1", "c2")}

	var buf bytes.Buffer
	snap := testOntology()
	ed := New(snap, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	res, err := ed.Build(grammar.NewParser(snap).Parse("replace centrifuge with fermenter"), s)
	require.NoError(t, err)
	assert.Equal(t, domain.Patch{domain.Replace("/units/0/template", "Fermenter_v1")}, res.Patch)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "c1, c2")
	assert.Contains(t, buf.String(), "ambiguous unit reference")
}

func TestBuild_Set(t *testing.T) {
	s := domain.Scenario{Units: []domain.UnitInstance{
		{Template: "Fermenter_v1", ID: "fer01"},
		{Template: "AEX_Membrane_v1", ID: "dsp04", Overrides: map[string]domain.Scalar{"target_pH": domain.Number(7)}},
	}}

	t.Run("creates overrides object when absent", func(t *testing.T) {
		p := mustBuild(t, s, "set titer=8, mode=fed-batch")
		assert.Equal(t, domain.Patch{
			domain.Add("/units/0/overrides", map[string]any{}),
			domain.Add("/units/0/overrides/titer", domain.Number(8)),
			domain.Add("/units/0/overrides/mode", domain.String("fed-batch")),
		}, p)
	})

	t.Run("overwrites existing keys with add", func(t *testing.T) {
		p := mustBuild(t, s, "set target_pH=4.4 on dsp04")
		assert.Equal(t, domain.Patch{
			domain.Add("/units/1/overrides/target_pH", domain.Number(4.4)),
		}, p)
	})

	t.Run("escapes pointer tokens", func(t *testing.T) {
		p := mustBuild(t, s, "set a/b~c=true on dsp04")
		assert.Equal(t, "/units/1/overrides/a~1b~0c", p[0].Path)
	})

	t.Run("missing scope", func(t *testing.T) {
		_, err := build(t, s, "set x=1 on missing_id")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "missing_id", nf.Token)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "missing_id")
	})

	t.Run("empty scenario", func(t *testing.T) {
		_, err := build(t, domain.Scenario{}, "set x=1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBuild_AddAfterSplicesEveryOutgoingEdge(t *testing.T) {
	s := domain.Scenario{
		Units: units("a", "b", "c"),
		Streams: []domain.StreamLink{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
			{From: "a", To: "c"},
		},
	}

	p := mustBuild(t, s, "add fermenter after a")
	assert.Equal(t, domain.Patch{
		domain.Add("/units/-", domain.UnitInstance{Template: "Fermenter_v1", ID: "fermenter_v1"}),
		domain.Remove("/streams/2"),
		domain.Remove("/streams/0"),
		domain.Add("/streams/-", domain.StreamLink{From: "a", To: "fermenter_v1"}),
		domain.Add("/streams/-", domain.StreamLink{From: "fermenter_v1", To: "b"}),
		domain.Add("/streams/-", domain.StreamLink{From: "fermenter_v1", To: "c"}),
	}, p)
}

func TestBuild_AddBefore(t *testing.T) {
	s := domain.Scenario{
		Units:   units("a", "b", "c"),
		Streams: []domain.StreamLink{{From: "a", To: "c"}, {From: "b", To: "c"}},
	}

	p := mustBuild(t, s, "add centrifuge before c")
	assert.Equal(t, domain.Patch{
		domain.Add("/units/-", domain.UnitInstance{Template: "Centrifuge_v1", ID: "centrifuge_v1"}),
		domain.Remove("/streams/1"),
		domain.Remove("/streams/0"),
		domain.Add("/streams/-", domain.StreamLink{From: "a", To: "centrifuge_v1"}),
		domain.Add("/streams/-", domain.StreamLink{From: "b", To: "centrifuge_v1"}),
		domain.Add("/streams/-", domain.StreamLink{From: "centrifuge_v1", To: "c"}),
	}, p)
}

func TestBuild_AddAllocatesFreshIDs(t *testing.T) {
	s := domain.Scenario{Units: []domain.UnitInstance{
		{Template: "Centrifuge_v1", ID: "centrifuge_v1"},
		{Template: "Centrifuge_v1", ID: "centrifuge_v1_2"},
	}}

	p := mustBuild(t, s, "add centrifuge")
	require.Len(t, p, 1)
	assert.Equal(t, domain.UnitInstance{Template: "Centrifuge_v1", ID: "centrifuge_v1_3"}, p[0].Value)
}

func TestBuild_AddErrors(t *testing.T) {
	s := domain.Scenario{Units: units("a")}

	_, err := build(t, s, "add centrifuge at a")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = build(t, s, "add centrifuge after nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_RemoveEmitsEdgesDescendingThenUnit(t *testing.T) {
	s := domain.Scenario{
		Units: units("a", "b", "c"),
		Streams: []domain.StreamLink{
			{From: "a", To: "b"},
			{From: "c", To: "a"},
			{From: "b", To: "c"},
			{From: "b", To: "a"},
		},
	}

	p := mustBuild(t, s, "remove a")
	assert.Equal(t, domain.Patch{
		domain.Remove("/streams/3"),
		domain.Remove("/streams/1"),
		domain.Remove("/streams/0"),
		domain.Remove("/units/0"),
	}, p)
}

func TestBuild_ConnectDisconnect(t *testing.T) {
	s := domain.Scenario{
		Units:   units("a", "b"),
		Streams: []domain.StreamLink{{From: "a", To: "b"}, {From: "b", To: "a"}, {From: "a", To: "b"}},
	}

	assert.Empty(t, mustBuild(t, s, "connect a -> b"))
	assert.Equal(t, domain.Patch{
		domain.Add("/streams/-", domain.StreamLink{From: "a", To: "a"}),
	}, mustBuild(t, s, "connect a->a"))

	assert.Equal(t, domain.Patch{domain.Remove("/streams/2")}, mustBuild(t, s, "disconnect a -> b"))
	assert.Empty(t, mustBuild(t, s, "disconnect a -> zz"))

	_, err := build(t, s, "connect a -> zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_Duplicate(t *testing.T) {
	s := domain.Scenario{
		Units: []domain.UnitInstance{
			{Template: "AEX_Membrane_v1", ID: "dsp04", Overrides: map[string]domain.Scalar{"target_pH": domain.Number(4.4)}},
		},
		Streams: []domain.StreamLink{{From: "dsp04", To: "dsp04"}},
	}

	p := mustBuild(t, s, "duplicate dsp04 as dsp05")
	require.Len(t, p, 1)
	dup, ok := p[0].Value.(domain.UnitInstance)
	require.True(t, ok)
	assert.Equal(t, "dsp05", dup.ID)
	assert.Equal(t, "AEX_Membrane_v1", dup.Template)
	assert.Equal(t, s.Units[0].Overrides, dup.Overrides)

	dup.Overrides["target_pH"] = domain.Number(1)
	assert.Equal(t, domain.Number(4.4), s.Units[0].Overrides["target_pH"], "source overrides must not alias")

	_, err := build(t, s, "duplicate dsp04 as dsp04")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestBuild_RunAndUnknown(t *testing.T) {
	_, err := build(t, domain.Scenario{}, "run sobol n=10")
	assert.ErrorIs(t, err, domain.ErrRunNotPatchable)

	_, err = build(t, domain.Scenario{}, "make it better")
	var ue *domain.UnrecognizedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "make it better", ue.Raw)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedCommand)
}

func TestBuild_PatchSerializesAsRFC6902(t *testing.T) {
	s := domain.Scenario{Units: units("a")}
	p := mustBuild(t, s, "set x=1, y=high on a")

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"op":"add","path":"/units/0/overrides","value":{}},
		{"op":"add","path":"/units/0/overrides/x","value":1},
		{"op":"add","path":"/units/0/overrides/y","value":"high"}
	]`, string(raw))
}
