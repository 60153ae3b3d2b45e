package templateir

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Builder accumulates render job fields. It is mutable and single-use; Build
// performs every validation check and either returns an immutable IR or the
// first violated constraint, never a partial IR.
type Builder struct {
	mainTemplatePath  string
	itemsTemplatePath string
	outputFormat      OutputFormat
	mainContext       map[string]any
	itemsArray        []map[string]any
	config            TemplateConfig
	variableMappings  []VariableMapping
	metadata          Metadata
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithMainTemplate sets the main template path.
func (b *Builder) WithMainTemplate(path string) *Builder {
	b.mainTemplatePath = path
	return b
}

// WithItemsTemplate sets the companion items template path.
func (b *Builder) WithItemsTemplate(path string) *Builder {
	b.itemsTemplatePath = path
	return b
}

// WithOutputFormat sets the output serialization.
func (b *Builder) WithOutputFormat(format OutputFormat) *Builder {
	b.outputFormat = format
	return b
}

// WithMainContext sets the main rendering data object.
func (b *Builder) WithMainContext(context map[string]any) *Builder {
	b.mainContext = context
	return b
}

// WithItemsArray sets the ordered per-item records.
func (b *Builder) WithItemsArray(items []map[string]any) *Builder {
	b.itemsArray = items
	return b
}

// WithConfig sets the template configuration variant.
func (b *Builder) WithConfig(config TemplateConfig) *Builder {
	b.config = config
	return b
}

// AddVariableMapping appends one variable mapping, preserving order.
func (b *Builder) AddVariableMapping(name, source string) *Builder {
	b.variableMappings = append(b.variableMappings, VariableMapping{Name: name, Source: source})
	return b
}

// WithMetadata sets the job metadata.
func (b *Builder) WithMetadata(metadata Metadata) *Builder {
	b.metadata = metadata
	return b
}

// Build validates the accumulated fields and returns the immutable IR. Checks
// run in a fixed order and the first violation is returned.
func (b *Builder) Build() (*IR, error) {
	if strings.TrimSpace(b.mainTemplatePath) == "" {
		return nil, validation.NewError(
			"templateir.main_template_required", "main template path is required")
	}
	if !knownFormat(b.outputFormat) {
		return nil, validation.NewError(
			"templateir.output_format_unknown", "output format must be json, yaml, or markdown")
	}
	if strings.TrimSpace(b.metadata.Stage) == "" {
		return nil, validation.NewError(
			"templateir.metadata_stage_required", "metadata stage is required")
	}

	hasItemsTemplate := strings.TrimSpace(b.itemsTemplatePath) != ""
	hasItemsArray := b.itemsArray != nil
	if hasItemsTemplate != hasItemsArray {
		return nil, validation.NewError(
			"templateir.items_mismatch", "items template path and items array must be set together")
	}

	switch b.config.Kind() {
	case KindSingleTemplate:
		if hasItemsTemplate || hasItemsArray {
			return nil, validation.NewError(
				"templateir.single_forbids_items", "SingleTemplate configuration forbids items template and items array")
		}
	case KindDualTemplate:
		if !hasItemsTemplate || !hasItemsArray {
			return nil, validation.NewError(
				"templateir.dual_requires_items", "DualTemplate configuration requires items template and items array")
		}
	default:
		return nil, validation.NewError(
			"templateir.config_required", "template configuration is required")
	}

	mainContext := b.mainContext
	if mainContext == nil {
		mainContext = map[string]any{}
	}

	// Copy while preserving nil-ness: an empty items array is still "present".
	var items []map[string]any
	if b.itemsArray != nil {
		items = make([]map[string]any, len(b.itemsArray))
		copy(items, b.itemsArray)
	}

	return &IR{
		mainTemplatePath:  b.mainTemplatePath,
		itemsTemplatePath: b.itemsTemplatePath,
		outputFormat:      b.outputFormat,
		mainContext:       mainContext,
		itemsArray:        items,
		config:            b.config,
		variableMappings:  append([]VariableMapping(nil), b.variableMappings...),
		metadata:          b.metadata.clone(),
	}, nil
}
