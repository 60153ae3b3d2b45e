// Package templateir defines the immutable description of one render job and
// the builder that assembles it. All validation happens exactly once, in
// Build; a successfully built IR cannot be mutated afterwards.
package templateir

// StageItemRendering is the metadata stage sentinel applied to per-item
// rendering contexts derived from this IR.
const StageItemRendering = "item-rendering"

// VariableMapping binds a template variable name to the path expression that
// produced its value. The order of mappings is meaningful and preserved.
type VariableMapping struct {
	Name   string
	Source string
}

// Metadata records where a render job came from.
type Metadata struct {
	Stage       string
	SchemaPath  string
	SourceFiles []string
}

func (m Metadata) clone() Metadata {
	m.SourceFiles = append([]string(nil), m.SourceFiles...)
	return m
}

// IR is the validated, immutable description of one render job.
type IR struct {
	mainTemplatePath  string
	itemsTemplatePath string
	outputFormat      OutputFormat
	mainContext       map[string]any
	itemsArray        []map[string]any
	config            TemplateConfig
	variableMappings  []VariableMapping
	metadata          Metadata
}

// MainTemplatePath returns the main template location.
func (ir *IR) MainTemplatePath() string { return ir.mainTemplatePath }

// ItemsTemplatePath returns the items template location; empty for
// SingleTemplate jobs.
func (ir *IR) ItemsTemplatePath() string { return ir.itemsTemplatePath }

// OutputFormat returns the declared output serialization.
func (ir *IR) OutputFormat() OutputFormat { return ir.outputFormat }

// MainContext returns the main rendering data. Callers must treat the
// returned map read-only.
func (ir *IR) MainContext() map[string]any { return ir.mainContext }

// ItemsArray returns the ordered per-item records, or nil for SingleTemplate
// jobs. Callers must treat the returned slice read-only.
func (ir *IR) ItemsArray() []map[string]any { return ir.itemsArray }

// HasItems reports whether the job carries an items array.
func (ir *IR) HasItems() bool { return ir.itemsArray != nil }

// Config returns the template configuration variant.
func (ir *IR) Config() TemplateConfig { return ir.config }

// VariableMappings returns the ordered variable mappings.
func (ir *IR) VariableMappings() []VariableMapping {
	return append([]VariableMapping(nil), ir.variableMappings...)
}

// Metadata returns a copy of the job metadata.
func (ir *IR) Metadata() Metadata { return ir.metadata.clone() }
