package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrFormatUnknown indicates an unrecognized output format kind.
var ErrFormatUnknown = errors.New("output: unknown format kind")

// FormatKind tags the serialization variant.
type FormatKind string

const (
	FormatKindJSON     FormatKind = "json"
	FormatKindYAML     FormatKind = "yaml"
	FormatKindMarkdown FormatKind = "markdown"
)

// FormatOptions selects the serialization and its layout knobs.
type FormatOptions struct {
	Kind FormatKind
	// Indent is the JSON indent width in spaces.
	Indent int
	// IndentSize is the YAML indent width in spaces.
	IndentSize int
}

// Formatter serializes an aggregated structure into the final byte format.
// The emitted document's top-level keys are exactly the structure's own keys;
// no envelope key is ever introduced.
type Formatter struct{}

// NewFormatter constructs a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format serializes structure per the options.
func (f *Formatter) Format(structure map[string]any, opts FormatOptions) (string, error) {
	switch opts.Kind {
	case FormatKindJSON:
		return formatJSON(structure, opts.Indent)
	case FormatKindYAML:
		return formatYAML(structure, opts.IndentSize)
	case FormatKindMarkdown:
		return formatMarkdown(structure), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormatUnknown, opts.Kind)
	}
}

func formatJSON(structure map[string]any, indent int) (string, error) {
	if indent <= 0 {
		indent = 2
	}
	encoded, err := json.MarshalIndent(structure, "", strings.Repeat(" ", indent))
	if err != nil {
		return "", fmt.Errorf("output: encode json: %w", err)
	}
	return string(encoded) + "\n", nil
}

func formatYAML(structure map[string]any, indentSize int) (string, error) {
	if indentSize <= 0 {
		indentSize = 2
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indentSize)
	if err := encoder.Encode(structure); err != nil {
		return "", fmt.Errorf("output: encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("output: encode yaml: %w", err)
	}
	return buf.String(), nil
}

// formatMarkdown emits the fixed layout: top-level scalars as bullet lines,
// then for each array field a "## <item-title>" heading with "- Field: value"
// bullets per item, in item order. Keys iterate sorted for stable output.
func formatMarkdown(structure map[string]any) string {
	var b strings.Builder

	keys := sortedKeys(structure)
	for _, key := range keys {
		if _, isArray := structure[key].([]any); isArray {
			continue
		}
		if _, isObject := structure[key].(map[string]any); isObject {
			continue
		}
		fmt.Fprintf(&b, "- %s: %v\n", key, structure[key])
	}

	for _, key := range keys {
		items, isArray := structure[key].([]any)
		if !isArray {
			continue
		}
		for _, element := range items {
			item, isObject := element.(map[string]any)
			if !isObject {
				fmt.Fprintf(&b, "\n## %v\n", element)
				continue
			}
			fmt.Fprintf(&b, "\n## %s\n", itemTitle(item))
			for _, field := range sortedKeys(item) {
				fmt.Fprintf(&b, "- %s: %v\n", field, item[field])
			}
		}
	}

	return b.String()
}

func itemTitle(item map[string]any) string {
	for _, candidate := range []string{"title", "name", "id"} {
		if value, ok := item[candidate].(string); ok && value != "" {
			return value
		}
	}
	return "(untitled)"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
