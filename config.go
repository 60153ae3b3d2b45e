package fts

import "github.com/tettuan/frontmatter-to-schema/internal/runtimeconfig"

var (
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrOutputFormatInvalid     = runtimeconfig.ErrOutputFormatInvalid
	ErrDocumentPatternRequired = runtimeconfig.ErrDocumentPatternRequired
	ErrSchemaPathRequired      = runtimeconfig.ErrSchemaPathRequired
	ErrOutputPathRequired      = runtimeconfig.ErrOutputPathRequired
)

type (
	Config         = runtimeconfig.Config
	LoggingConfig  = runtimeconfig.LoggingConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	PipelineConfig = runtimeconfig.PipelineConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfigFile reads a YAML configuration file over the defaults.
func LoadConfigFile(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
