package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/nls/internal/presentation/graph"
	"github.com/aretw0/nls/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	line := domain.Scenario{
		Units: []domain.UnitInstance{
			{Template: "Fermenter_v1", ID: "fer01"},
			{Template: "Centrifuge_v1", ID: "cen-1", Overrides: map[string]domain.Scalar{"rpm": domain.Number(9000)}},
			{Template: "SprayDryer_v1", ID: "dry/1"},
		},
		Streams: []domain.StreamLink{{From: "fer01", To: "cen-1"}, {From: "cen-1", To: "dry/1"}},
	}

	tests := []struct {
		name     string
		scenario domain.Scenario
		overlay  *graph.Overlay
		contains []string
		absent   []string
	}{
		{
			name:     "Source And Sink Shapes",
			scenario: line,
			contains: []string{
				`fer01(("fer01<br/>Fermenter_v1"))`,
				`cen_1["cen-1<br/>Centrifuge_v1<br/>1 override(s)"]`,
				`dry_1[/"dry/1<br/>SprayDryer_v1"/]`,
			},
		},
		{
			name: "Isolated Units Are Rectangles",
			scenario: domain.Scenario{Units: []domain.UnitInstance{
				{Template: `Odd"Name`, ID: "solo"},
			}},
			contains: []string{`solo["solo<br/>Odd'Name"]`},
		},
		{
			name:     "Streams",
			scenario: line,
			contains: []string{"fer01 --> cen_1", "cen_1 --> dry_1"},
			absent:   []string{"Overlay Styles"},
		},
		{
			name:     "Overlay",
			scenario: line,
			overlay: graph.OverlayFromDiff(&domain.ScenarioDiff{
				AddedUnits:   []string{"cen-1"},
				ChangedUnits: []domain.UnitChange{{ID: "dry/1"}},
				AddedStreams: []domain.StreamLink{{From: "fer01", To: "cen-1"}},
			}),
			contains: []string{
				"fer01 ==> cen_1",
				"cen_1 --> dry_1",
				"class cen_1 added;",
				"class dry_1 changed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.scenario, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestOverlayFromDiff_Nil(t *testing.T) {
	if graph.OverlayFromDiff(nil) != nil {
		t.Error("expected nil overlay for nil diff")
	}
}
