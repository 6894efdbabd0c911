package ontology

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// supportedMajor is the only schema major version this loader understands.
const supportedMajor = "v1"

// ErrEmptyDocument is returned when a source yields no content.
var ErrEmptyDocument = errors.New("ontology document is empty")

// DocumentError reports why an ontology document could not be loaded.
type DocumentError struct {
	Source string // where the document came from, e.g. a file path
	Stage  string // "read", "decode", "schema" or "version"
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("ontology %s (%s): %v", e.Stage, e.Source, e.Err)
	}
	return fmt.Sprintf("ontology %s: %v", e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Parse decodes a YAML (or JSON) ontology document, validates its shape
// and checks that its schema version is supported.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Stage: "decode", Err: err}
	}
	if raw == nil {
		return nil, &DocumentError{Stage: "decode", Err: ErrEmptyDocument}
	}

	if err := validateShape(raw); err != nil {
		return nil, &DocumentError{Stage: "schema", Err: err}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DocumentError{Stage: "decode", Err: err}
	}

	if doc.SchemaVersion == "" {
		doc.SchemaVersion = DefaultSchemaVersion
	}
	if err := checkVersion(doc.SchemaVersion); err != nil {
		return nil, &DocumentError{Stage: "version", Err: err}
	}

	return &doc, nil
}

// checkVersion accepts any valid semantic version with the supported major.
func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("schema_version %q is not a valid semantic version", v)
	}
	if semver.Major(v) != supportedMajor {
		return fmt.Errorf("schema_version %q is not supported (want %s.x.y)", v, supportedMajor)
	}
	return nil
}
