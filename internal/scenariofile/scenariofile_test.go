package scenariofile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nls/pkg/domain"
)

const yamlDoc = `
units:
  - template: Fermenter_v1
    id: fer01
    overrides:
      titer: 8
      fed_batch: true
      strain: "CHO-K1"
  - template: AEX_Membrane_v1
    id: dsp04
streams:
  - from: fer01
    to: dsp04
uncertainty:
  titer:
    dist: uniform
    low: 6
    high: 10
`

func TestDecode_YAML(t *testing.T) {
	s, err := Decode(strings.NewReader(yamlDoc), YAML)
	require.NoError(t, err)

	require.Len(t, s.Units, 2)
	assert.Equal(t, map[string]domain.Scalar{
		"titer":     domain.Number(8),
		"fed_batch": domain.Bool(true),
		"strain":    domain.String("CHO-K1"),
	}, s.Units[0].Overrides)
	assert.Equal(t, []domain.StreamLink{{From: "fer01", To: "dsp04"}}, s.Streams)
	require.Contains(t, s.Uncertainty, "titer")
	assert.Equal(t, 10.0, *s.Uncertainty["titer"].High)
}

func TestDecode_RejectsNonScalarOverride(t *testing.T) {
	doc := "units:\n  - template: X\n    id: x\n    overrides:\n      bad: [1, 2]\n"
	_, err := Decode(strings.NewReader(doc), YAML)
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	s, err := Decode(strings.NewReader("  \n"), JSON)
	require.NoError(t, err)
	assert.Empty(t, s.Units)
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	s, err := Decode(strings.NewReader(yamlDoc), YAML)
	require.NoError(t, err)

	for _, name := range []string{"scenario.json", "scenario.yaml", "scenario.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Write(path, s))

			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
}

func TestEncode_EmptyScenarioKeepsArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, domain.Scenario{}, JSON))
	assert.JSONEq(t, `{"units":[],"streams":[]}`, buf.String())
}

func TestRead(t *testing.T) {
	s, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, s.Units)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, YAML, FormatOf("a/b.yaml"))
	assert.Equal(t, YAML, FormatOf("b.YML"))
	assert.Equal(t, JSON, FormatOf("b.json"))
	assert.Equal(t, JSON, FormatOf("b"))
}
