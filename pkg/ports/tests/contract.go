package tests

import (
	"context"
	"testing"

	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/ports"
)

// OntologyLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.OntologyLoader.
// want lists the entries the adapter was seeded with.
func OntologyLoaderContractTest(t *testing.T, loader ports.OntologyLoader, want []ontology.Entry) {
	t.Helper()

	t.Run("Load_AllEntries", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading ontology: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}

		lookup := make(map[string]ontology.Entry, len(got))
		for _, e := range got {
			lookup[e.Template] = e
		}
		for _, w := range want {
			e, ok := lookup[w.Template]
			if !ok {
				t.Errorf("template %s missing from load", w.Template)
				continue
			}
			if len(e.Synonyms) != len(w.Synonyms) {
				t.Errorf("template %s: expected %d synonyms, got %d", w.Template, len(w.Synonyms), len(e.Synonyms))
			}
			if len(e.Parameters) != len(w.Parameters) {
				t.Errorf("template %s: expected %d parameters, got %d", w.Template, len(w.Parameters), len(e.Parameters))
			}
		}
	})

	t.Run("Load_Deterministic", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range first {
			if first[i].Template != second[i].Template {
				t.Errorf("order differs at %d: %s vs %s", i, first[i].Template, second[i].Template)
			}
		}
	})

	t.Run("Load_Resolvable", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		snap := ontology.New(got...)
		for _, w := range want {
			for _, syn := range w.Synonyms {
				if r := snap.ResolveUnit(syn); r != w.Template {
					t.Errorf("synonym %q resolved to %q, want %q", syn, r, w.Template)
				}
			}
		}
	})
}
