package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/nls/pkg/adapters/memory"
	"github.com/aretw0/nls/pkg/ontology"
	contract "github.com/aretw0/nls/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	entries := memory.DefaultEntries()
	loader := memory.NewLoader(entries...)

	contract.OntologyLoaderContractTest(t, loader, entries)
}

func TestInMemoryLoader_RejectsDuplicates(t *testing.T) {
	loader := memory.NewLoader(
		ontology.Entry{Template: "A_v1"},
		ontology.Entry{Template: "A_v1"},
	)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A_v1")
}

func TestDefaultEntries_Coverage(t *testing.T) {
	report := ontology.Coverage(memory.DefaultEntries())
	assert.True(t, report.OK(), report.String())
	assert.Empty(t, report.TemplatesWithoutSynonyms)
}
