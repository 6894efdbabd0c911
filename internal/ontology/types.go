// Package ontology loads the geometry domain ontology: concept records with
// their prerequisite codes and problem records with typed answer specs.
// It only produces raw records; graph and problem validation happen in
// conceptgraph and problembank.
package ontology

// DefaultSchemaVersion is assumed when a document omits schema_version.
const DefaultSchemaVersion = "v1.0.0"

// Document is a single ontology snapshot as read from a source.
type Document struct {
	SchemaVersion string          `yaml:"schema_version"`
	Name          string          `yaml:"name"`
	Concepts      []ConceptRecord `yaml:"concepts"`
	Problems      []ProblemRecord `yaml:"problems"`
	// Misconceptions are known error patterns, each tied to one concept.
	Misconceptions []MisconceptionRecord `yaml:"misconceptions"`
}

// ConceptRecord is the raw form of a concept node.
type ConceptRecord struct {
	Code          string   `yaml:"code"`
	Label         string   `yaml:"label"`
	Description   string   `yaml:"description"`
	Difficulty    int      `yaml:"difficulty"`
	KSLevel       int      `yaml:"ks_level"`
	ImageKey      string   `yaml:"image_key"`
	Prerequisites []string `yaml:"prerequisites"`
}

// ProblemRecord is the raw form of a problem definition.
type ProblemRecord struct {
	ID           string       `yaml:"id"`
	Label        string       `yaml:"label"`
	ConceptCodes []string     `yaml:"concepts"`
	Prompt       string       `yaml:"prompt"`
	Answer       AnswerRecord `yaml:"answer"`
}

// AnswerRecord is the raw, untyped answer specification of a problem.
// Which fields are meaningful depends on Type.
type AnswerRecord struct {
	Type      string   `yaml:"type"`
	Text      string   `yaml:"text"`
	Value     *float64 `yaml:"value"`
	Tolerance *float64 `yaml:"tolerance"`
	// Unit of a numeric value, e.g. "cm" or "deg". Empty means unitless.
	Unit       string   `yaml:"unit"`
	Expression string   `yaml:"expression"`
	Values     []string `yaml:"values"`
	// Compare selects how multi_value elements are normalized: "text" or "symbolic".
	Compare string `yaml:"compare"`
}

// MisconceptionRecord is the raw form of a misconception pattern.
type MisconceptionRecord struct {
	ID          string `yaml:"id"`
	ConceptCode string `yaml:"concept"`
	Label       string `yaml:"label"`
	Message     string `yaml:"message"`
}
