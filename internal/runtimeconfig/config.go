// Package runtimeconfig holds the module's runtime configuration: logging,
// document loading, and pipeline defaults. Validation happens once, before
// any service is constructed.
package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrLoggingLevelInvalid     = errors.New("fts config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("fts config: logging format is invalid")
	ErrOutputFormatInvalid     = errors.New("fts config: output format is invalid")
	ErrDocumentPatternRequired = errors.New("fts config: document pattern is required")
	ErrSchemaPathRequired      = errors.New("fts config: schema path is required")
	ErrOutputPathRequired      = errors.New("fts config: output path is required")
)

// Config is the top level runtime configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LoggingConfig captures the go-logger adapter options.
type LoggingConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// MarkdownConfig controls document discovery and body rendering.
type MarkdownConfig struct {
	Pattern    string   `yaml:"pattern"`
	Recursive  bool     `yaml:"recursive"`
	RenderHTML bool     `yaml:"render_html"`
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// PipelineConfig supplies run defaults the CLI can override per invocation.
type PipelineConfig struct {
	SchemaPath        string         `yaml:"schema_path"`
	DocsDir           string         `yaml:"docs_dir"`
	MainTemplatePath  string         `yaml:"main_template"`
	ItemsTemplatePath string         `yaml:"items_template"`
	OutputPath        string         `yaml:"output_path"`
	OutputFormat      string         `yaml:"output_format"`
	BaseContext       map[string]any `yaml:"base_context"`
	// FailureThreshold tunes the aggregation breaker; zero keeps the
	// default, a negative value disables the breaker.
	FailureThreshold int `yaml:"failure_threshold"`
}

// DefaultConfig returns the configuration applied when nothing is supplied.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Pipeline: PipelineConfig{
			OutputFormat: "json",
		},
	}
}

// LoadFile reads a YAML configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fts config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("fts config: decode %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations no service constructor could accept.
func Validate(cfg Config) error {
	if cfg.Logging.Enabled {
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	if strings.TrimSpace(cfg.Markdown.Pattern) == "" {
		return ErrDocumentPatternRequired
	}
	if format := strings.TrimSpace(cfg.Pipeline.OutputFormat); format != "" && !isSupportedOutputFormat(format) {
		return fmt.Errorf("%w: %s", ErrOutputFormatInvalid, format)
	}
	return nil
}

// ValidateRun checks the fields a run cannot proceed without. The CLI calls
// it after merging flags over the file config.
func ValidateRun(cfg PipelineConfig) error {
	if strings.TrimSpace(cfg.SchemaPath) == "" {
		return ErrSchemaPathRequired
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return ErrOutputPathRequired
	}
	if format := strings.TrimSpace(cfg.OutputFormat); format == "" || !isSupportedOutputFormat(format) {
		return fmt.Errorf("%w: %s", ErrOutputFormatInvalid, cfg.OutputFormat)
	}
	return nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedOutputFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "yaml", "markdown":
		return true
	default:
		return false
	}
}
