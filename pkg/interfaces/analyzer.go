package interfaces

import "context"

// ExtractedInfo carries the structured records an analyzer recovered from a
// document that did not declare them directly in its frontmatter.
type ExtractedInfo struct {
	Records []map[string]any
	Notes   string
}

// Analyzer converts unstructured document content into structured records
// guided by a schema. Implementations may call out to an AI service; the
// pipeline only requires that they are deterministic per invocation and
// return an error instead of partial results.
type Analyzer interface {
	Analyze(ctx context.Context, doc *Document, schema map[string]any) (*ExtractedInfo, error)
}
