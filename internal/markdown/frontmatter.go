package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// ParseFrontmatter extracts the front matter dataset and the Markdown body
// from the provided source bytes. The dataset keeps whatever shape the
// document declares; no envelope fields are imposed. Nested mappings are
// normalized to map[string]any so the dataset is one uniform tree regardless
// of which decoder produced it.
func ParseFrontmatter(source []byte) (interfaces.FrontmatterDataset, []byte, error) {
	dataset := interfaces.FrontmatterDataset{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &dataset)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	for key, value := range dataset {
		dataset[key] = normalizeValue(value)
	}
	return dataset, body, nil
}

// normalizeValue rewrites every mapping in the tree as map[string]any. The
// YAML decoder behind frontmatter.Parse yields map[interface{}]interface{}
// for nested mappings; non-string keys are stringified with fmt.Sprint.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[fmt.Sprint(key)] = normalizeValue(element)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[key] = normalizeValue(element)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, element := range typed {
			out[i] = normalizeValue(element)
		}
		return out
	default:
		return value
	}
}

// BuildDocument assembles a Document from the supplied file path, raw
// content, and modification time. BodyHTML is left empty so callers can
// render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	dataset, body, err := ParseFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &interfaces.Document{
		FilePath:     path,
		Frontmatter:  dataset,
		Body:         body,
		LastModified: modified,
	}, nil
}
