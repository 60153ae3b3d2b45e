package interfaces

import "time"

// FrontmatterDataset is the generic key/value tree parsed from one source
// document. The pipeline treats it as an opaque value: scalars, []any arrays,
// and nested map[string]any objects, exactly as the frontmatter parser
// produced them.
type FrontmatterDataset = map[string]any

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	Frontmatter  FrontmatterDataset
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (typically
	// SHA-256) so callers can detect changes without re-reading files.
	Checksum []byte
}

// Dataset returns the document's frontmatter enriched with the reserved
// body/bodyHtml keys so derivation rules and templates can reference the
// document content alongside its metadata.
func (d *Document) Dataset() FrontmatterDataset {
	out := make(FrontmatterDataset, len(d.Frontmatter)+2)
	for key, value := range d.Frontmatter {
		out[key] = value
	}
	if len(d.Body) > 0 {
		out["body"] = string(d.Body)
	}
	if len(d.BodyHTML) > 0 {
		out["bodyHtml"] = string(d.BodyHTML)
	}
	return out
}
