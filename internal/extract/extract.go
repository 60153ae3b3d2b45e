// Package extract pulls the schema-designated subset out of each document's
// front matter. The frontmatter-part property names where item records live;
// its filter directive, when present, narrows which records qualify.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/internal/pathexpr"
	"github.com/tettuan/frontmatter-to-schema/internal/schema"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

var (
	// ErrNilDocument indicates extraction was attempted without a document.
	ErrNilDocument = errors.New("extract: document is nil")
	// ErrNilDefinition indicates extraction was attempted without a schema.
	ErrNilDefinition = errors.New("extract: schema definition is nil")
)

// Extraction is the per-document result: the records selected from the
// frontmatter part, plus where they came from.
type Extraction struct {
	DocumentPath string
	Records      []map[string]any
	// FromAnalyzer reports whether the records came from the fallback
	// analyzer rather than the document's own front matter.
	FromAnalyzer bool
}

// Extractor resolves the schema's frontmatter-part path against documents.
type Extractor struct {
	def      *schema.Definition
	partPath string
	filter   *pathexpr.Expression
	analyzer interfaces.Analyzer
	logger   interfaces.Logger
}

// Option customises Extractor construction.
type Option func(*Extractor)

// WithAnalyzer installs a fallback used when a document's front matter lacks
// the designated part.
func WithAnalyzer(analyzer interfaces.Analyzer) Option {
	return func(e *Extractor) {
		e.analyzer = analyzer
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(e *Extractor) {
		e.logger = logging.SchemaLogger(provider)
	}
}

// New builds an Extractor for the given schema definition. The definition must
// designate exactly one frontmatter part; a filter directive on that property
// is compiled up front so per-document evaluation cannot fail on syntax.
func New(def *schema.Definition, opts ...Option) (*Extractor, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	partPath, err := schema.FindFrontmatterPartPath(def)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		def:      def,
		partPath: partPath,
		logger:   logging.NoOp(),
	}

	if prop, ok := schema.FindProperty(def, partPath); ok && schema.HasJMESPathFilter(prop) {
		filter, err := pathexpr.Parse(prop.Directives.JMESPathFilter)
		if err != nil {
			return nil, fmt.Errorf("extract: compile filter for %s: %w", partPath, err)
		}
		e.filter = filter
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// PartPath returns the dotted path of the designated frontmatter part.
func (e *Extractor) PartPath() string { return e.partPath }

// Extract selects the item records for one document. Documents whose front
// matter lacks the part fall through to the analyzer when one is installed;
// otherwise the extraction is empty, never an error.
func (e *Extractor) Extract(ctx context.Context, doc *interfaces.Document) (*Extraction, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset := doc.Dataset()
	matches, err := pathexpr.Evaluate(e.partPath, dataset)
	if err != nil {
		return nil, fmt.Errorf("extract: evaluate part path %s: %w", e.partPath, err)
	}

	records := e.selectRecords(matches)
	if len(records) == 0 && !hasPart(matches) && e.analyzer != nil {
		info, err := e.analyzer.Analyze(ctx, doc, e.def.Raw())
		if err != nil {
			return nil, fmt.Errorf("extract: analyze %s: %w", doc.FilePath, err)
		}
		e.logger.Debug("frontmatter part missing, analyzer supplied records",
			"document_path", doc.FilePath, "count", len(info.Records))
		return &Extraction{
			DocumentPath: doc.FilePath,
			Records:      cloneRecords(info.Records),
			FromAnalyzer: true,
		}, nil
	}

	e.logger.Debug("extracted records", "document_path", doc.FilePath, "count", len(records))
	return &Extraction{
		DocumentPath: doc.FilePath,
		Records:      records,
	}, nil
}

// selectRecords applies the part filter and keeps only object-shaped matches.
// Malformed elements are skipped silently, matching the lenient query policy.
func (e *Extractor) selectRecords(matches []any) []map[string]any {
	candidates := matches
	if e.filter != nil {
		var filtered []any
		for _, match := range matches {
			filtered = append(filtered, e.filter.Evaluate(match)...)
		}
		candidates = filtered
	}

	var records []map[string]any
	for _, candidate := range candidates {
		switch value := candidate.(type) {
		case map[string]any:
			records = append(records, value)
		case []any:
			for _, element := range value {
				if record, ok := element.(map[string]any); ok {
					records = append(records, record)
				}
			}
		}
	}
	return records
}

func hasPart(matches []any) bool {
	for _, match := range matches {
		if match != nil {
			return true
		}
	}
	return false
}

func cloneRecords(records []map[string]any) []map[string]any {
	if records == nil {
		return nil
	}
	out := make([]map[string]any, len(records))
	copy(out, records)
	return out
}
