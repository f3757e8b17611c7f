package ports

import (
	"context"

	"github.com/aretw0/nls/pkg/ontology"
)

// OntologyLoader defines how the engine retrieves unit specification records.
// It is called once at startup; the result is frozen into an ontology.Snapshot.
type OntologyLoader interface {
	// Load returns every unit entry known to the source, in a deterministic order.
	Load(ctx context.Context) ([]ontology.Entry, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// A new Snapshot must be built and swapped in by the caller; loaders never mutate a live one.
type Watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}
