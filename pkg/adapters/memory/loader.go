package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/nls/pkg/ontology"
)

// Loader implements ports.OntologyLoader using an in-memory list.
type Loader struct {
	entries []ontology.Entry
}

// NewLoader creates a new in-memory Loader. Entries are returned sorted by template.
func NewLoader(entries ...ontology.Entry) *Loader {
	cp := make([]ontology.Entry, len(entries))
	copy(cp, entries)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Template < cp[j].Template })
	return &Loader{entries: cp}
}

// Load returns the configured entries. Empty or duplicate templates are rejected.
func (l *Loader) Load(ctx context.Context) ([]ontology.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(l.entries))
	out := make([]ontology.Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Template == "" {
			return nil, fmt.Errorf("entry missing template")
		}
		if seen[e.Template] {
			return nil, fmt.Errorf("collision detected: template '%s' is defined twice", e.Template)
		}
		seen[e.Template] = true
		out = append(out, e)
	}
	return out, nil
}
