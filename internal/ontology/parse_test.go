package ontology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `
schema_version: v1.2.0
name: tiny
concepts:
  - code: TRI.BASIC
    label: Triangle Basics
    description: Sides and angles.
  - code: TRI.PYTH
    label: Pythagorean Theorem
    prerequisites: [TRI.BASIC]
problems:
  - id: P1
    concepts: [TRI.PYTH]
    prompt: Legs 5 and 12?
    answer:
      type: numeric
      value: 13
      tolerance: 0.1
  - id: P2
    concepts: [TRI.BASIC]
    prompt: Name the angles.
    answer:
      type: multi_value
      values: [30, "∠ABC"]
`

func TestParse_Minimal(t *testing.T) {
	doc, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", doc.SchemaVersion)
	assert.Equal(t, "tiny", doc.Name)
	require.Len(t, doc.Concepts, 2)
	assert.Equal(t, []string{"TRI.BASIC"}, doc.Concepts[1].Prerequisites)

	require.Len(t, doc.Problems, 2)
	p := doc.Problems[0]
	assert.Equal(t, "numeric", p.Answer.Type)
	require.NotNil(t, p.Answer.Value)
	require.NotNil(t, p.Answer.Tolerance)
	assert.Equal(t, 13.0, *p.Answer.Value)
	assert.Equal(t, 0.1, *p.Answer.Tolerance)

	assert.Equal(t, []string{"30", "∠ABC"}, doc.Problems[1].Answer.Values)
}

func TestParse_DefaultsSchemaVersion(t *testing.T) {
	doc, err := Parse([]byte("concepts:\n  - code: A\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSchemaVersion, doc.SchemaVersion)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stage string
	}{
		{"empty", "", "decode"},
		{"malformed yaml", "concepts: [", "decode"},
		{"missing concepts", "name: x\n", "schema"},
		{"concept without code", "concepts:\n  - label: nope\n", "schema"},
		{"unknown field", "concepts: []\nextra: 1\n", "schema"},
		{"unknown answer type", "concepts: []\nproblems:\n  - id: p\n    concepts: [A]\n    answer: {type: essay}\n", "schema"},
		{"numeric without tolerance", "concepts: []\nproblems:\n  - id: p\n    concepts: [A]\n    answer: {type: numeric, value: 3}\n", "schema"},
		{"invalid version", "schema_version: one\nconcepts: []\n", "version"},
		{"unsupported major", "schema_version: v2.0.0\nconcepts: []\n", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var de *DocumentError
			require.True(t, errors.As(err, &de), "expected *DocumentError, got %T", err)
			assert.Equal(t, tt.stage, de.Stage)
		})
	}
}

func TestDefault_Loads(t *testing.T) {
	doc, err := Default().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "geometry-its", doc.Name)
	assert.NotEmpty(t, doc.Concepts)
	assert.NotEmpty(t, doc.Problems)
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onto.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	src := NewSource(path)
	assert.Equal(t, path, src.String())

	doc, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Concepts, 2)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := src.Load(context.Background())

	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "read", de.Stage)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_ReportsPathOnSchemaError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	_, err := FileSource{Path: path}.Load(context.Background())
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, path, de.Source)
	assert.Contains(t, err.Error(), path)
}

func TestSources_RespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, src := range []Source{Default(), FileSource{Path: "x"}, StaticSource{Doc: &Document{}}} {
		_, err := src.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled, "source %s", src)
	}
}

func TestStaticSource_NilDocument(t *testing.T) {
	_, err := StaticSource{}.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestSource_KeyIdentifiesDocument(t *testing.T) {
	first, second := &Document{Name: "first"}, &Document{Name: "second"}

	assert.Equal(t, StaticSource{Doc: first}.Key(), StaticSource{Doc: first}.Key())
	assert.NotEqual(t, StaticSource{Doc: first}.Key(), StaticSource{Doc: second}.Key())
	assert.Equal(t, StaticSource{Doc: first}.String(), StaticSource{Doc: second}.String())

	a := BytesSource{Data: []byte(minimalDoc)}
	b := BytesSource{Data: []byte(minimalDoc + "\n# edited\n")}
	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), BytesSource{Name: "renamed", Data: []byte(minimalDoc)}.Key())

	assert.NotEqual(t, FileSource{Path: "a.yaml"}.Key(), FileSource{Path: "b.yaml"}.Key())
}

func TestParse_NumericUnitAndMisconceptions(t *testing.T) {
	doc, err := Default().Load(context.Background())
	require.NoError(t, err)

	units := map[string]string{}
	for _, p := range doc.Problems {
		if p.Answer.Type == "numeric" {
			units[p.ID] = p.Answer.Unit
		}
	}
	assert.Equal(t, "cm", units["P.TRI.PYTH.01"])
	assert.Equal(t, "deg", units["P.TRI.BASIC.01"])

	require.NotEmpty(t, doc.Misconceptions)
	for _, m := range doc.Misconceptions {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.ConceptCode, "misconception %s", m.ID)
	}
}

func TestParse_RejectsMisconceptionWithoutConcept(t *testing.T) {
	_, err := Parse([]byte(minimalDoc + `
misconceptions:
  - id: M.ORPHAN
    message: no concept
`))
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "schema", de.Stage)
}
