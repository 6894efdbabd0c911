package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://geometry-ontology.json"

// documentSchema describes the structural shape of an ontology document.
// Referential checks (unknown codes, cycles) are not expressible here.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"schema_version": map[string]any{"type": "string"},
		"name":           map[string]any{"type": "string"},
		"concepts": map[string]any{
			"type":  "array",
			"items": conceptSchema,
		},
		"problems": map[string]any{
			"type":  "array",
			"items": problemSchema,
		},
		"misconceptions": map[string]any{
			"type":  "array",
			"items": misconceptionSchema,
		},
	},
	"required":             []any{"concepts"},
	"additionalProperties": false,
}

var conceptSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"code":        map[string]any{"type": "string", "minLength": 1},
		"label":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"difficulty":  map[string]any{"type": "integer", "minimum": 0},
		"ks_level":    map[string]any{"type": "integer", "minimum": 0},
		"image_key":   map[string]any{"type": "string"},
		"prerequisites": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []any{"code"},
	"additionalProperties": false,
}

var problemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":    map[string]any{"type": "string", "minLength": 1},
		"label": map[string]any{"type": "string"},
		"concepts": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"prompt": map[string]any{"type": "string"},
		"answer": answerSchema,
	},
	"required":             []any{"id", "concepts", "answer"},
	"additionalProperties": false,
}

var misconceptionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":      map[string]any{"type": "string", "minLength": 1},
		"concept": map[string]any{"type": "string", "minLength": 1},
		"label":   map[string]any{"type": "string"},
		"message": map[string]any{"type": "string"},
	},
	"required":             []any{"id", "concept"},
	"additionalProperties": false,
}

var answerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type": "string",
			"enum": []any{"exact_text", "numeric", "symbolic_expression", "multi_value"},
		},
		"text":       map[string]any{"type": "string"},
		"value":      map[string]any{"type": "number"},
		"tolerance":  map[string]any{"type": "number"},
		"unit":       map[string]any{"type": "string"},
		"expression": map[string]any{"type": "string"},
		"values": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": []any{"string", "number"}},
		},
		"compare": map[string]any{
			"type": "string",
			"enum": []any{"text", "symbolic"},
		},
	},
	"required":             []any{"type"},
	"additionalProperties": false,
	"allOf": []any{
		requireWhen("numeric", "value", "tolerance"),
		requireWhen("exact_text", "text"),
		requireWhen("symbolic_expression", "expression"),
		requireWhen("multi_value", "values"),
	},
}

// requireWhen builds an if/then clause requiring fields for one answer type.
func requireWhen(answerType string, fields ...string) map[string]any {
	required := make([]any, len(fields))
	for i, f := range fields {
		required[i] = f
	}
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"type": map[string]any{"const": answerType}},
		},
		"then": map[string]any{"required": required},
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiled returns the document schema, compiling it on first use.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a value shaped like decoded JSON.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateShape checks a decoded YAML value against the document schema.
func validateShape(raw any) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so numbers and maps have the types the
	// validator expects.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert document: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("convert document: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
