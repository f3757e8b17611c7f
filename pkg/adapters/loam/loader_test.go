package loam

import (
	"context"
	"testing"

	"github.com/aretw0/nls/internal/testutils"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSpecDir(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	loader, err := Open(testutils.WriteSpecDir(t, files))
	require.NoError(t, err)
	return loader
}

func TestLoader_Contract(t *testing.T) {
	loader := openSpecDir(t, map[string]string{
		"aex.md": `---
template: AEX_Membrane_v1
synonyms:
  - aex membrane
  - anion exchange membrane
parameters:
  - key: target_pH
    synonyms: [ph, target ph]
    type: float
  - key: recycle_fraction
    synonyms: [recycle]
---
Anion exchange membrane polishing step.`,
		"chitosan.md": `---
template: ChitosanCapture_v1
synonyms: [chitosan capture, chitosan]
---
Chitosan flocculation capture.`,
	})

	tests.OntologyLoaderContractTest(t, loader, []ontology.Entry{
		{
			Template: "AEX_Membrane_v1",
			Synonyms: []string{"aex membrane", "anion exchange membrane"},
			Parameters: []ontology.Parameter{
				{Key: "target_pH", Synonyms: []string{"ph", "target ph"}, Type: "float"},
				{Key: "recycle_fraction", Synonyms: []string{"recycle"}},
			},
		},
		{
			Template: "ChitosanCapture_v1",
			Synonyms: []string{"chitosan capture", "chitosan"},
		},
	})
}

func TestLoader_TemplateFallsBackToFileStem(t *testing.T) {
	loader := openSpecDir(t, map[string]string{
		"Centrifuge_v1.md": `---
synonyms: [centrifuge]
---
Disc stack centrifuge.`,
		"README.md": "# Unit specs\n",
	})

	entries, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Centrifuge_v1", entries[0].Template)
	assert.Equal(t, []string{"centrifuge"}, entries[0].Synonyms)
}

func TestLoader_JSONRecord(t *testing.T) {
	loader := openSpecDir(t, map[string]string{
		"fermenter.json": `{"template": "Fermenter_v1", "synonyms": ["fermenter", "bioreactor"]}`,
	})

	entries, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Fermenter_v1", entries[0].Template)
	assert.Equal(t, []string{"fermenter", "bioreactor"}, entries[0].Synonyms)
}

func TestLoader_DuplicateTemplate(t *testing.T) {
	record := `---
template: Fermenter_v1
synonyms: [fermenter]
---
`
	loader := openSpecDir(t, map[string]string{"a.md": record, "b.md": record})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}
