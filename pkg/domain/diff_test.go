package domain

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	before := Scenario{
		Units: []UnitInstance{
			{Template: "AEX_Membrane_v1", ID: "dsp04", Overrides: map[string]Scalar{"flux": Number(10)}},
			{Template: "Fermenter_v1", ID: "fer01"},
		},
		Streams: []StreamLink{{From: "fer01", To: "dsp04"}, {From: "fer01", To: "dsp04"}},
	}
	after := Scenario{
		Units: []UnitInstance{
			{Template: "ChitosanCapture_v1", ID: "dsp04", Overrides: map[string]Scalar{"target_pH": Number(4.4)}},
			{Template: "Centrifuge_v1", ID: "cen01"},
		},
		Streams: []StreamLink{{From: "fer01", To: "dsp04"}, {From: "dsp04", To: "cen01"}},
	}

	got := Diff(before, after)
	want := &ScenarioDiff{
		AddedUnits:   []string{"cen01"},
		RemovedUnits: []string{"fer01"},
		ChangedUnits: []UnitChange{{
			ID:        "dsp04",
			Template:  &TemplateChange{From: "AEX_Membrane_v1", To: "ChitosanCapture_v1"},
			Overrides: map[string]any{"target_pH": Number(4.4), "flux": nil},
		}},
		AddedStreams:   []StreamLink{{From: "dsp04", To: "cen01"}},
		RemovedStreams: []StreamLink{{From: "fer01", To: "dsp04"}},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %+v, want %+v", got, want)
	}
}

func TestDiff_NoChanges(t *testing.T) {
	s := Scenario{Units: []UnitInstance{{Template: "T", ID: "a"}}}
	if d := Diff(s, s.Clone()); !d.IsEmpty() {
		t.Errorf("Diff() = %+v, want empty", d)
	}
}
