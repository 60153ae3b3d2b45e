// Package fts turns directories of Markdown documents with structured front
// matter into schema-validated, template-rendered artifacts such as command
// registries.
package fts

import (
	"context"
	"fmt"

	"github.com/tettuan/frontmatter-to-schema/internal/logging/gologger"
	"github.com/tettuan/frontmatter-to-schema/internal/markdown"
	"github.com/tettuan/frontmatter-to-schema/internal/output"
	"github.com/tettuan/frontmatter-to-schema/internal/pipeline"
	"github.com/tettuan/frontmatter-to-schema/internal/render"
	"github.com/tettuan/frontmatter-to-schema/internal/runtimeconfig"
	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
	"github.com/tettuan/frontmatter-to-schema/pkg/storage"
)

// Document exports the parsed document type for consumers of the fts package.
type Document = interfaces.Document

// FrontmatterDataset exports the generic frontmatter tree.
type FrontmatterDataset = interfaces.FrontmatterDataset

// Analyzer exports the extraction fallback contract.
type Analyzer = interfaces.Analyzer

// FileReader exports the template and schema source contract.
type FileReader = interfaces.FileReader

// FileWriter exports the artifact sink contract.
type FileWriter = interfaces.FileWriter

// RunConfig exports the per-run pipeline configuration.
type RunConfig = pipeline.RunConfig

// StructuredRunConfig exports the template-free run configuration.
type StructuredRunConfig = pipeline.StructuredRunConfig

// RunResult exports the pipeline run summary.
type RunResult = pipeline.RunResult

// RenderedOutput exports the rendered artifact descriptor.
type RenderedOutput = render.RenderedOutput

// Module is the top level runtime façade: a configured document source plus
// the pipeline that turns its documents into artifacts.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	docs     *markdown.Service
	pipeline *pipeline.Service
}

// Option customises module construction.
type Option func(*moduleDeps)

type moduleDeps struct {
	reader   interfaces.FileReader
	writer   interfaces.FileWriter
	analyzer interfaces.Analyzer
	provider interfaces.LoggerProvider
}

// WithFileReader overrides the template and schema source.
func WithFileReader(reader interfaces.FileReader) Option {
	return func(d *moduleDeps) {
		d.reader = reader
	}
}

// WithFileWriter overrides the artifact sink.
func WithFileWriter(writer interfaces.FileWriter) Option {
	return func(d *moduleDeps) {
		d.writer = writer
	}
}

// WithAnalyzer installs the extraction fallback analyzer.
func WithAnalyzer(analyzer interfaces.Analyzer) Option {
	return func(d *moduleDeps) {
		d.analyzer = analyzer
	}
}

// WithLoggerProvider overrides the logger provider built from the logging
// configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *moduleDeps) {
		d.provider = provider
	}
}

// New constructs a module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := runtimeconfig.Validate(cfg); err != nil {
		return nil, err
	}

	deps := &moduleDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	if deps.provider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		deps.provider = provider
	}

	if deps.reader == nil {
		deps.reader = storage.OSReader{}
	}
	if deps.writer == nil {
		deps.writer = storage.OSWriter{}
	}

	// The document service is rooted at the working directory; run configs
	// address their docs directory relative to it.
	docs, err := markdown.NewService(markdown.Config{
		BasePath:   ".",
		Pattern:    cfg.Markdown.Pattern,
		Recursive:  cfg.Markdown.Recursive,
		RenderHTML: cfg.Markdown.RenderHTML,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, nil, markdown.WithLogger(deps.provider))
	if err != nil {
		return nil, err
	}

	pipelineOpts := []pipeline.ServiceOption{pipeline.WithLogger(deps.provider)}
	if deps.analyzer != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithAnalyzer(deps.analyzer))
	}

	return &Module{
		cfg:      cfg,
		provider: deps.provider,
		docs:     docs,
		pipeline: pipeline.NewService(deps.reader, deps.writer, docs, pipelineOpts...),
	}, nil
}

// Config returns the module's configuration.
func (m *Module) Config() Config {
	return m.cfg
}

// Documents returns the configured document source.
func (m *Module) Documents() *markdown.Service {
	return m.docs
}

// Run executes one pipeline run using the module's configured defaults merged
// with the supplied overrides. Empty override fields fall back to the
// configuration file values.
func (m *Module) Run(ctx context.Context, overrides RunConfig) (*RunResult, error) {
	run := m.mergeRun(overrides)
	if err := runtimeconfig.ValidateRun(runtimeconfig.PipelineConfig{
		SchemaPath:   run.SchemaPath,
		OutputPath:   run.OutputPath,
		OutputFormat: string(run.OutputFormat),
	}); err != nil {
		return nil, err
	}
	return m.pipeline.Run(ctx, run)
}

// RunStructured executes a template-free run: document datasets merge into
// one schema-shaped structure written in the requested format.
func (m *Module) RunStructured(ctx context.Context, overrides StructuredRunConfig) (*RunResult, error) {
	defaults := m.cfg.Pipeline

	run := overrides
	if run.SchemaPath == "" {
		run.SchemaPath = defaults.SchemaPath
	}
	if run.DocsDir == "" {
		run.DocsDir = defaults.DocsDir
	}
	if run.OutputPath == "" {
		run.OutputPath = defaults.OutputPath
	}
	if run.Format == "" {
		run.Format = output.FormatKind(defaults.OutputFormat)
	}

	if err := runtimeconfig.ValidateRun(runtimeconfig.PipelineConfig{
		SchemaPath:   run.SchemaPath,
		OutputPath:   run.OutputPath,
		OutputFormat: string(run.Format),
	}); err != nil {
		return nil, err
	}
	return m.pipeline.RunStructured(ctx, run)
}

func (m *Module) mergeRun(overrides RunConfig) RunConfig {
	defaults := m.cfg.Pipeline

	run := overrides
	if run.SchemaPath == "" {
		run.SchemaPath = defaults.SchemaPath
	}
	if run.DocsDir == "" {
		run.DocsDir = defaults.DocsDir
	}
	if run.MainTemplatePath == "" {
		run.MainTemplatePath = defaults.MainTemplatePath
	}
	if run.ItemsTemplatePath == "" {
		run.ItemsTemplatePath = defaults.ItemsTemplatePath
	}
	if run.OutputPath == "" {
		run.OutputPath = defaults.OutputPath
	}
	if run.OutputFormat == "" {
		run.OutputFormat = templateir.OutputFormat(defaults.OutputFormat)
	}
	if run.BaseContext == nil {
		run.BaseContext = defaults.BaseContext
	}
	if run.FailureThreshold == 0 {
		run.FailureThreshold = defaults.FailureThreshold
	}
	return run
}

// FormatFor maps a configuration format string to the renderer's format tag.
func FormatFor(format string) (templateir.OutputFormat, error) {
	switch format {
	case "json":
		return templateir.FormatJSON, nil
	case "yaml":
		return templateir.FormatYAML, nil
	case "markdown":
		return templateir.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrOutputFormatInvalid, format)
	}
}
