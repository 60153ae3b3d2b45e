// Package pipeline sequences the full run: load schema and documents, extract
// item records, aggregate derived fields, build the render job, and write the
// final artifact. A run stops at the first failure; nothing partial is handed
// downstream.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tettuan/frontmatter-to-schema/internal/aggregate"
	"github.com/tettuan/frontmatter-to-schema/internal/extract"
	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/internal/render"
	"github.com/tettuan/frontmatter-to-schema/internal/schema"
	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// ErrNoMainTemplate indicates neither the run config nor the schema's
// template directive names a main template.
var ErrNoMainTemplate = errors.New("pipeline: no main template configured")

// DocumentSource supplies parsed Markdown documents for a run.
type DocumentSource interface {
	LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error)
}

// RunConfig describes one pipeline run.
type RunConfig struct {
	SchemaPath string
	DocsDir    string
	// MainTemplatePath overrides the schema's template directive.
	MainTemplatePath  string
	ItemsTemplatePath string
	OutputPath        string
	OutputFormat      templateir.OutputFormat
	// BaseContext seeds the main rendering data; derived fields never
	// overwrite its existing leaves.
	BaseContext map[string]any
	// FailureThreshold tunes the aggregation circuit breaker; zero keeps
	// the default, a negative value disables the breaker entirely.
	FailureThreshold int
}

// RunResult summarises a completed run.
type RunResult struct {
	RunID     string
	Output    *render.RenderedOutput
	Documents int
	Items     int
	Derived   map[string]any
}

// Service owns the run sequence. Collaborators are injected so the same
// service runs against the filesystem in production and fixtures in tests.
type Service struct {
	reader   interfaces.FileReader
	writer   interfaces.FileWriter
	docs     DocumentSource
	analyzer interfaces.Analyzer
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

// ServiceOption customises Service construction.
type ServiceOption func(*Service)

// WithAnalyzer installs the extraction fallback analyzer.
func WithAnalyzer(analyzer interfaces.Analyzer) ServiceOption {
	return func(s *Service) {
		s.analyzer = analyzer
	}
}

// WithLogger attaches a logger provider; stage loggers derive from it.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *Service) {
		s.provider = provider
		s.logger = logging.PipelineLogger(provider)
	}
}

// NewService wires a pipeline service from its collaborators.
func NewService(reader interfaces.FileReader, writer interfaces.FileWriter, docs DocumentSource, opts ...ServiceOption) *Service {
	svc := &Service{
		reader: reader,
		writer: writer,
		docs:   docs,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Run executes one pipeline run end to end.
func (s *Service) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	runID := uuid.NewString()
	logger := logging.WithRunContext(s.logger, runID, "", cfg.OutputPath)
	logger.Info("pipeline run started", "schema", cfg.SchemaPath, "docs", cfg.DocsDir)

	def, err := s.loadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, wrapSchemaError(err)
	}

	docs, err := s.docs.LoadDirectory(ctx, cfg.DocsDir)
	if err != nil {
		return nil, wrapDocumentError(err)
	}
	logger.Debug("documents loaded", "count", len(docs))

	items, datasets, err := s.extractAll(ctx, def, docs)
	if err != nil {
		return nil, wrapExtractionError(err)
	}

	merged, err := s.aggregateAll(def, datasets, cfg)
	if err != nil {
		return nil, wrapAggregationError(err)
	}

	ir, err := s.buildIR(def, cfg, merged, items, docPaths(docs))
	if err != nil {
		return nil, wrapRenderError(err)
	}

	renderer := render.NewService(s.reader, s.writer, render.WithLogger(logging.RenderLogger(s.provider)))
	output, err := renderer.RenderOutputFromIR(ir, cfg.OutputPath)
	if err != nil {
		return nil, wrapRenderError(err)
	}

	logger.Info("pipeline run finished", "documents", len(docs), "items", len(items))
	return &RunResult{
		RunID:     runID,
		Output:    output,
		Documents: len(docs),
		Items:     len(items),
		Derived:   merged,
	}, nil
}

// loadSchema reads and parses the schema document. YAML handles JSON sources
// too, so one decoder covers both.
func (s *Service) loadSchema(path string) (*schema.Definition, error) {
	text, err := s.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", path, err)
	}

	return schema.ParseDefinition(raw)
}

// extractAll selects item records per document and collects the datasets the
// derivation rules will query.
func (s *Service) extractAll(ctx context.Context, def *schema.Definition, docs []*interfaces.Document) ([]map[string]any, []interfaces.FrontmatterDataset, error) {
	extractOpts := []extract.Option{}
	if s.analyzer != nil {
		extractOpts = append(extractOpts, extract.WithAnalyzer(s.analyzer))
	}
	if s.provider != nil {
		extractOpts = append(extractOpts, extract.WithLogger(s.provider))
	}

	extractor, err := extract.New(def, extractOpts...)
	if err != nil {
		return nil, nil, err
	}

	var items []map[string]any
	datasets := make([]interfaces.FrontmatterDataset, 0, len(docs))
	for _, doc := range docs {
		extraction, err := extractor.Extract(ctx, doc)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, extraction.Records...)
		datasets = append(datasets, doc.Dataset())
	}
	return items, datasets, nil
}

// aggregateAll runs the schema's derivation rules over the document datasets
// and merges the derived fields into the base context. A fresh Aggregator is
// created per run so breaker state never leaks between runs.
func (s *Service) aggregateAll(def *schema.Definition, datasets []interfaces.FrontmatterDataset, cfg RunConfig) (map[string]any, error) {
	specs, err := schema.DerivedSpecs(def)
	if err != nil {
		return nil, err
	}

	rules := make([]aggregate.DerivationRule, 0, len(specs))
	for _, spec := range specs {
		rule, err := aggregate.NewDerivationRule(spec.SourceExpr, spec.TargetPath, spec.Unique)
		if err != nil {
			return nil, fmt.Errorf("rule for %s: %w", spec.TargetPath, err)
		}
		rules = append(rules, rule)
	}

	aggOpts := []aggregate.Option{aggregate.WithLogger(logging.AggregateLogger(s.provider))}
	var agg *aggregate.Aggregator
	switch {
	case cfg.FailureThreshold < 0:
		agg = aggregate.NewWithoutBreaker(aggOpts...)
	case cfg.FailureThreshold > 0:
		agg = aggregate.New(append(aggOpts, aggregate.WithFailureThreshold(cfg.FailureThreshold))...)
	default:
		agg = aggregate.New(aggOpts...)
	}

	result, err := agg.Aggregate(datasets, rules)
	if err != nil {
		return nil, err
	}
	return agg.MergeWithBase(result, cfg.BaseContext)
}

// buildIR assembles the render job: dual when an items template is named,
// single otherwise.
func (s *Service) buildIR(def *schema.Definition, cfg RunConfig, merged map[string]any, items []map[string]any, sources []string) (*templateir.IR, error) {
	mainPath := cfg.MainTemplatePath
	if mainPath == "" {
		mainPath = schemaTemplatePath(def)
	}
	if mainPath == "" {
		return nil, ErrNoMainTemplate
	}

	builder := templateir.NewBuilder().
		WithMainTemplate(mainPath).
		WithOutputFormat(cfg.OutputFormat).
		WithMainContext(merged).
		WithMetadata(templateir.Metadata{
			Stage:       "main-rendering",
			SchemaPath:  cfg.SchemaPath,
			SourceFiles: sources,
		})

	if cfg.ItemsTemplatePath == "" {
		return builder.WithConfig(templateir.SingleTemplate(mainPath)).Build()
	}

	if items == nil {
		items = []map[string]any{}
	}
	return builder.
		WithItemsTemplate(cfg.ItemsTemplatePath).
		WithItemsArray(items).
		WithConfig(templateir.DualTemplate(mainPath, cfg.ItemsTemplatePath)).
		Build()
}

// schemaTemplatePath returns the template directive closest to the root, if
// the schema declares one.
func schemaTemplatePath(def *schema.Definition) string {
	if path, ok := def.Raw()[schema.DirectiveTemplate].(string); ok && path != "" {
		return path
	}
	return findTemplateDirective(def.Properties())
}

func findTemplateDirective(props []schema.Property) string {
	for _, prop := range props {
		if prop.Directives.Template != "" {
			return prop.Directives.Template
		}
	}
	for _, prop := range props {
		if found := findTemplateDirective(prop.Children); found != "" {
			return found
		}
	}
	return ""
}

func docPaths(docs []*interfaces.Document) []string {
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.FilePath)
	}
	return paths
}
