package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/internal/output"
	"github.com/tettuan/frontmatter-to-schema/internal/render"
)

// StructuredRunConfig describes a template-free run: document datasets are
// merged directly into one structure shaped by the schema and serialized.
type StructuredRunConfig struct {
	SchemaPath string
	DocsDir    string
	OutputPath string
	Format     output.FormatKind
	Indent     int
	IndentSize int
	// MergeKey identifies array elements across documents for dedup.
	MergeKey string
	// BaseContext seeds the merged structure; its fields win over
	// document-supplied values.
	BaseContext map[string]any
}

// RunStructured merges every document's dataset into one schema-shaped
// structure and writes it in the requested format. Arrays concatenate with
// merge-key dedup; scalars keep the first value seen, the base first of all.
func (s *Service) RunStructured(ctx context.Context, cfg StructuredRunConfig) (*RunResult, error) {
	runID := uuid.NewString()
	logger := logging.WithRunContext(s.logger, runID, "", cfg.OutputPath)
	logger.Info("structured run started", "schema", cfg.SchemaPath, "docs", cfg.DocsDir)

	def, err := s.loadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, wrapSchemaError(err)
	}

	docs, err := s.docs.LoadDirectory(ctx, cfg.DocsDir)
	if err != nil {
		return nil, wrapDocumentError(err)
	}

	structure := output.StructureFromSchema(def.Raw())
	strategy := output.MergeStrategy{Kind: output.StrategyMergeArrays, MergeKey: cfg.MergeKey}

	base := cfg.BaseContext
	if base == nil {
		base = map[string]any{}
	}
	merged, err := output.NewAggregatedStructure(base, strategy, structure)
	if err != nil {
		return nil, wrapAggregationError(err)
	}
	for _, doc := range docs {
		if err := merged.MergeFrom(doc.Dataset()); err != nil {
			return nil, wrapAggregationError(err)
		}
	}

	text, err := output.NewFormatter().Format(merged.Data(), output.FormatOptions{
		Kind:       cfg.Format,
		Indent:     cfg.Indent,
		IndentSize: cfg.IndentSize,
	})
	if err != nil {
		return nil, wrapRenderError(err)
	}

	if err := s.writer.Write(cfg.OutputPath, text); err != nil {
		return nil, wrapRenderError(err)
	}

	logger.Info("structured run finished", "documents", len(docs))
	return &RunResult{
		RunID:     runID,
		Output:    &render.RenderedOutput{Path: cfg.OutputPath, Content: text},
		Documents: len(docs),
		Derived:   merged.Data(),
	}, nil
}
