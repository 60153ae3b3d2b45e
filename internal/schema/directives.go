package schema

import (
	"fmt"
	"strings"
)

// FindFrontmatterPartPath performs a depth-first search for the first
// property flagged with the frontmatter-part directive and returns its
// dotted path. Sibling order follows the deterministic property ordering
// established at parse time.
func FindFrontmatterPartPath(def *Definition) (string, error) {
	if def == nil {
		return "", ErrSchemaEmpty
	}
	if path, ok := findFrontmatterPart(def.properties, nil); ok {
		return path, nil
	}
	return "", ErrFrontmatterPartNotFound
}

func findFrontmatterPart(props []Property, trail []string) (string, bool) {
	for _, prop := range props {
		path := append(append([]string(nil), trail...), prop.Name)
		if prop.Directives.FrontmatterPart {
			return strings.Join(path, "."), true
		}
		if found, ok := findFrontmatterPart(prop.Children, path); ok {
			return found, true
		}
	}
	return "", false
}

// HasJMESPathFilter reports whether the property carries a filter directive.
func HasJMESPathFilter(prop Property) bool {
	return prop.Directives.JMESPathFilter != ""
}

// FindProperty resolves a dotted path to the property definition it names.
func FindProperty(def *Definition, path string) (Property, bool) {
	if def == nil {
		return Property{}, false
	}
	segments := strings.Split(path, ".")
	props := def.properties
	var current Property
	for i, segment := range segments {
		found := false
		for _, prop := range props {
			if prop.Name == segment {
				current = prop
				props = prop.Children
				found = true
				break
			}
		}
		if !found {
			return Property{}, false
		}
		if i == len(segments)-1 {
			return current, true
		}
	}
	return Property{}, false
}

// DerivedSpec binds a derived property to the rule inputs it declares.
type DerivedSpec struct {
	TargetPath string
	SourceExpr string
	Unique     bool
}

// DerivedSpecs collects every property annotated with a derivation source,
// in deterministic traversal order. A property flagged derived-unique without
// a source expression is a schema authoring error.
func DerivedSpecs(def *Definition) ([]DerivedSpec, error) {
	if def == nil {
		return nil, ErrSchemaEmpty
	}
	return collectDerived(def.properties, nil)
}

func collectDerived(props []Property, trail []string) ([]DerivedSpec, error) {
	var specs []DerivedSpec
	for _, prop := range props {
		path := append(append([]string(nil), trail...), prop.Name)
		if prop.Directives.DerivedFrom != "" {
			specs = append(specs, DerivedSpec{
				TargetPath: strings.Join(path, "."),
				SourceExpr: prop.Directives.DerivedFrom,
				Unique:     prop.Directives.DerivedUnique,
			})
		} else if prop.Directives.DerivedUnique {
			return nil, fmt.Errorf("%w: %s", ErrDerivedSourceMissing, strings.Join(path, "."))
		}

		children, err := collectDerived(prop.Children, path)
		if err != nil {
			return nil, err
		}
		specs = append(specs, children...)
	}
	return specs, nil
}
