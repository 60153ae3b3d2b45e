// Package schema interprets directive-annotated schema definitions. Only the
// recognized x- directive keys drive behaviour; the rest of the document is
// treated as plain JSON Schema and is compile-checked, never fully validated.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Recognized directive keys. Directives may appear on any property.
const (
	DirectiveFrontmatterPart = "x-frontmatter-part"
	DirectiveJMESPathFilter  = "x-jmespath-filter"
	DirectiveDerivedFrom     = "x-derived-from"
	DirectiveDerivedUnique   = "x-derived-unique"
	DirectiveTemplate        = "x-template"
)

// Directives captures the recognized annotations on a single property.
type Directives struct {
	FrontmatterPart bool
	JMESPathFilter  string
	DerivedFrom     string
	DerivedUnique   bool
	Template        string
}

// Property is one named node of the schema tree. Children are kept sorted by
// name so traversal order is deterministic regardless of the parser that
// produced the source map.
type Property struct {
	Name       string
	Directives Directives
	Children   []Property
}

// Definition is an immutable, parsed schema document.
type Definition struct {
	properties []Property
	raw        map[string]any
}

// Raw returns the original schema document. Callers must treat it read-only.
func (d *Definition) Raw() map[string]any { return d.raw }

// Properties returns the top-level properties in deterministic order.
func (d *Definition) Properties() []Property { return d.properties }

// ParseDefinition interprets a generic schema document into a Definition.
// The property tree is walked first so shape errors name the offending
// property; the document is then compile-checked as JSON Schema so malformed
// definitions fail here rather than mid-pipeline.
func ParseDefinition(raw map[string]any) (*Definition, error) {
	if len(raw) == 0 {
		return nil, ErrSchemaEmpty
	}

	properties, err := parseProperties(raw)
	if err != nil {
		return nil, err
	}
	if err := CompileCheck(raw); err != nil {
		return nil, err
	}
	return &Definition{properties: properties, raw: raw}, nil
}

func parseProperties(node map[string]any) ([]Property, error) {
	rawProps, ok := node["properties"].(map[string]any)
	if !ok {
		return nil, nil
	}

	names := make([]string, 0, len(rawProps))
	for name := range rawProps {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Property, 0, len(names))
	for _, name := range names {
		child, ok := rawProps[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: property %q", ErrPropertyDefinitionShape, name)
		}
		prop, err := parseProperty(name, child)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	return out, nil
}

func parseProperty(name string, node map[string]any) (Property, error) {
	prop := Property{
		Name: name,
		Directives: Directives{
			FrontmatterPart: boolDirective(node, DirectiveFrontmatterPart),
			JMESPathFilter:  stringDirective(node, DirectiveJMESPathFilter),
			DerivedFrom:     stringDirective(node, DirectiveDerivedFrom),
			DerivedUnique:   boolDirective(node, DirectiveDerivedUnique),
			Template:        stringDirective(node, DirectiveTemplate),
		},
	}

	children, err := parseProperties(node)
	if err != nil {
		return Property{}, err
	}
	prop.Children = children

	// Array item schemas can carry directives too; fold them into the
	// property's children so lookups see the whole subtree.
	if items, ok := node["items"].(map[string]any); ok {
		itemChildren, err := parseProperties(items)
		if err != nil {
			return Property{}, err
		}
		prop.Children = append(prop.Children, itemChildren...)
	}

	return prop, nil
}

func boolDirective(node map[string]any, key string) bool {
	value, ok := node[key].(bool)
	return ok && value
}

func stringDirective(node map[string]any, key string) string {
	value, _ := node[key].(string)
	return strings.TrimSpace(value)
}
