package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDefinition = `
version: "1"
wizard:
  name: reduction
  questions:
    - key: puffs
      label: Puffs
      prompt: "How many puffs per day?"
      validation:
        kind: positive_number
    - key: method
      label: Method
      prompt: "Reduce by 'number' or 'percent'?"
      reject: "Only 'number' or 'percent' work here."
      validation:
        kind: choice
        options: [number, percent]
`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sampleDefinition))
	require.NoError(t, err)

	require.Equal(t, 2, cat.Len())
	assert.Equal(t, "reduction", cat.Name())

	puffs := cat.Step(0)
	assert.Equal(t, "puffs", puffs.Key)
	assert.Equal(t, "Puffs", puffs.Label)
	assert.Equal(t, KindPositiveNumber, puffs.Rule.Kind())

	method := cat.Step(1)
	assert.Equal(t, KindChoice, method.Rule.Kind())
	out := method.Validate("euros")
	require.False(t, out.Accepted)
	assert.Equal(t, "Only 'number' or 'percent' work here.", out.Reason)
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte(`
wizard:
  name: broken
  questions:
    - key: color
      label: Color
      prompt: "Favourite color?"
      validation:
        kind: regex
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported validation kind "regex"`)
	assert.Contains(t, err.Error(), "color")
}

func TestParseRejectsMissingValidation(t *testing.T) {
	_, err := Parse([]byte(`
wizard:
  name: broken
  questions:
    - key: color
      label: Color
      prompt: "Favourite color?"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing validation block")
}

func TestParseRejectsStrayValidationFields(t *testing.T) {
	_, err := Parse([]byte(`
wizard:
  name: broken
  questions:
    - key: puffs
      label: Puffs
      prompt: "How many?"
      validation:
        kind: positive_number
        pattern: "[0-9]+"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validation block")
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`
version: "7"
wizard:
  name: future
  questions: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported catalog version "7"`)
}

func TestParseReportsEveryProblemAtOnce(t *testing.T) {
	_, err := Parse([]byte(`
wizard:
  name: broken
  questions:
    - key: a
      label: A
      prompt: "A?"
      validation:
        kind: regex
    - key: b
      label: B
      prompt: "B?"
`))
	require.Error(t, err)
	errs := ConfigErrors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "unsupported validation kind")
	assert.Contains(t, errs[1].Error(), "missing validation block")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDefinition), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")
}
