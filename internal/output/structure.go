// Package output merges rendered per-document structures into one artifact
// and serializes it to JSON, YAML, or Markdown.
package output

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrStructureShape      = errors.New("output: structure does not match the declared template structure")
	ErrStrategyUnsupported = errors.New("output: unsupported merge strategy")
	ErrMergeKeyRequired    = errors.New("output: merge_arrays strategy requires a merge key")
)

// TemplateStructure declares the expected shape of a rendered structure:
// which top-level fields are scalars, which are arrays, and which nest
// further declarations.
type TemplateStructure struct {
	ScalarFields []string
	ArrayFields  []string
	Nested       map[string]TemplateStructure
}

// StrategyKind tags the merge strategy variant.
type StrategyKind string

// StrategyMergeArrays concatenates declared arrays and deduplicates their
// elements by merge key.
const StrategyMergeArrays StrategyKind = "merge_arrays"

// MergeStrategy selects how structures combine.
type MergeStrategy struct {
	Kind     StrategyKind
	MergeKey string
}

// AggregatedStructure is a validated, merge-ready structure. Its data is the
// structure itself; formatting never wraps it in an envelope key.
type AggregatedStructure struct {
	data     map[string]any
	strategy MergeStrategy
	template TemplateStructure
}

// NewAggregatedStructure validates raw against the template structure and
// normalizes its declared arrays per the strategy.
func NewAggregatedStructure(raw map[string]any, strategy MergeStrategy, template TemplateStructure) (*AggregatedStructure, error) {
	if strategy.Kind != StrategyMergeArrays {
		return nil, fmt.Errorf("%w: %q", ErrStrategyUnsupported, strategy.Kind)
	}
	if strategy.MergeKey == "" {
		return nil, ErrMergeKeyRequired
	}
	if err := checkShape(raw, template, ""); err != nil {
		return nil, err
	}

	s := &AggregatedStructure{
		data:     map[string]any{},
		strategy: strategy,
		template: template,
	}
	s.mergeInto(s.data, raw, template)
	return s, nil
}

// MergeFrom validates another rendered structure and folds it in: declared
// arrays concatenate with dedup by merge key, scalars keep their first value.
func (s *AggregatedStructure) MergeFrom(raw map[string]any) error {
	if err := checkShape(raw, s.template, ""); err != nil {
		return err
	}
	s.mergeInto(s.data, raw, s.template)
	return nil
}

// Data returns the merged structure. Callers must treat it read-only.
func (s *AggregatedStructure) Data() map[string]any { return s.data }

func checkShape(raw map[string]any, template TemplateStructure, trail string) error {
	for _, field := range template.ScalarFields {
		value, ok := raw[field]
		if !ok || value == nil {
			continue
		}
		switch value.(type) {
		case map[string]any, []any:
			return fmt.Errorf("%w: field %s must be a scalar", ErrStructureShape, joinTrail(trail, field))
		}
	}
	for _, field := range template.ArrayFields {
		value, ok := raw[field]
		if !ok || value == nil {
			continue
		}
		if _, isArray := value.([]any); !isArray {
			return fmt.Errorf("%w: field %s must be an array", ErrStructureShape, joinTrail(trail, field))
		}
	}
	for name, nested := range template.Nested {
		value, ok := raw[name]
		if !ok || value == nil {
			continue
		}
		child, isObject := value.(map[string]any)
		if !isObject {
			return fmt.Errorf("%w: field %s must be an object", ErrStructureShape, joinTrail(trail, name))
		}
		if err := checkShape(child, nested, joinTrail(trail, name)); err != nil {
			return err
		}
	}
	return nil
}

func (s *AggregatedStructure) mergeInto(dst, src map[string]any, template TemplateStructure) {
	for _, field := range template.ScalarFields {
		value, ok := src[field]
		if !ok || value == nil {
			continue
		}
		if _, exists := dst[field]; !exists {
			dst[field] = value
		}
	}

	for _, field := range template.ArrayFields {
		incoming, ok := src[field].([]any)
		if !ok {
			continue
		}
		existing, _ := dst[field].([]any)
		dst[field] = mergeArrays(existing, incoming, s.strategy.MergeKey)
	}

	for name, nested := range template.Nested {
		child, ok := src[name].(map[string]any)
		if !ok {
			continue
		}
		target, ok := dst[name].(map[string]any)
		if !ok {
			target = map[string]any{}
			dst[name] = target
		}
		s.mergeInto(target, child, nested)
	}
}

// mergeArrays concatenates preserving order; elements whose merge key value
// was already seen are dropped. Elements without the key fall back to deep
// equality.
func mergeArrays(existing, incoming []any, mergeKey string) []any {
	out := append([]any(nil), existing...)
	for _, candidate := range incoming {
		if containsElement(out, candidate, mergeKey) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func containsElement(haystack []any, candidate any, mergeKey string) bool {
	candidateKey, hasKey := elementKey(candidate, mergeKey)
	for _, kept := range haystack {
		if hasKey {
			if keptKey, ok := elementKey(kept, mergeKey); ok && keptKey == candidateKey {
				return true
			}
			continue
		}
		if reflect.DeepEqual(kept, candidate) {
			return true
		}
	}
	return false
}

func elementKey(element any, mergeKey string) (string, bool) {
	obj, ok := element.(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := obj[mergeKey]
	if !ok || value == nil {
		return "", false
	}
	return fmt.Sprint(value), true
}

func joinTrail(trail, field string) string {
	if trail == "" {
		return field
	}
	return trail + "." + field
}
