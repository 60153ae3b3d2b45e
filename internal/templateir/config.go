package templateir

// ConfigKind tags the template configuration variant.
type ConfigKind string

const (
	// KindSingleTemplate renders one template with the main context only.
	KindSingleTemplate ConfigKind = "SingleTemplate"
	// KindDualTemplate renders a main template plus an items template
	// expanded once per element of the items array.
	KindDualTemplate ConfigKind = "DualTemplate"
)

// TemplateConfig is the tagged Single/Dual variant. Construct values through
// SingleTemplate or DualTemplate; the zero value has no kind and fails IR
// validation.
type TemplateConfig struct {
	kind      ConfigKind
	path      string
	mainPath  string
	itemsPath string
}

// SingleTemplate declares a one-template render job.
func SingleTemplate(path string) TemplateConfig {
	return TemplateConfig{kind: KindSingleTemplate, path: path}
}

// DualTemplate declares a main template with a companion items template.
func DualTemplate(mainPath, itemsPath string) TemplateConfig {
	return TemplateConfig{kind: KindDualTemplate, mainPath: mainPath, itemsPath: itemsPath}
}

// Kind returns the variant tag.
func (c TemplateConfig) Kind() ConfigKind { return c.kind }

// Path returns the template path of a SingleTemplate configuration.
func (c TemplateConfig) Path() string { return c.path }

// MainPath returns the main template path of a DualTemplate configuration.
func (c TemplateConfig) MainPath() string { return c.mainPath }

// ItemsPath returns the items template path of a DualTemplate configuration.
func (c TemplateConfig) ItemsPath() string { return c.itemsPath }

// OutputFormat selects the rendered artifact's serialization.
type OutputFormat string

const (
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
)

func knownFormat(format OutputFormat) bool {
	switch format {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return true
	}
	return false
}
