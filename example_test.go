package nls_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/nls"
	"github.com/aretw0/nls/pkg/adapters/memory"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ontology"
)

// ExampleNew_memory builds an engine over an in-memory ontology and applies one command.
func ExampleNew_memory() {
	loader := memory.NewLoader(
		ontology.Entry{Template: "AEX_Membrane_v1", Synonyms: []string{"aex membrane"}},
		ontology.Entry{Template: "ChitosanCapture_v1", Synonyms: []string{"chitosan capture"}},
	)

	ctx := context.Background()
	engine, err := nls.New(ctx, "", nls.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	sc := domain.Scenario{Units: []domain.UnitInstance{{Template: "AEX_Membrane_v1", ID: "dsp04"}}}
	res, err := engine.Apply(ctx, "replace aex membrane with chitosan capture", sc)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(res.Patch)
	fmt.Println(res.ScenarioAfter.Units[0].Template)
	// Output:
	// replace /units/0/template "ChitosanCapture_v1"
	// ChitosanCapture_v1
}

// ExampleEngine_Batch applies several commands atomically.
func ExampleEngine_Batch() {
	ctx := context.Background()
	engine, err := nls.New(ctx, "")
	if err != nil {
		log.Fatal(err)
	}

	sc := domain.Scenario{
		Units:   []domain.UnitInstance{{Template: "Fermenter_v1", ID: "fer01"}, {Template: "AEX_Membrane_v1", ID: "dsp04"}},
		Streams: []domain.StreamLink{{From: "fer01", To: "dsp04"}},
	}
	res, err := engine.Batch(ctx, []string{"add centrifuge after fer01", "remove dsp04"}, sc)
	if err != nil {
		log.Fatal(err)
	}

	for _, u := range res.ScenarioAfter.Units {
		fmt.Println(u.ID, u.Template)
	}
	fmt.Println(res.ScenarioAfter.Streams)
	// Output:
	// fer01 Fermenter_v1
	// centrifuge_v1 Centrifuge_v1
	// [{fer01 centrifuge_v1}]
}
