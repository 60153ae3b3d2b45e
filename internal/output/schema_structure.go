package output

// StructureFromSchema derives the expected template structure from a JSON
// Schema document: array-typed properties become array fields, object-typed
// properties nest, and everything else is a scalar field. Unknown or untyped
// properties are treated as scalars, keeping the shape check lenient.
func StructureFromSchema(raw map[string]any) TemplateStructure {
	structure := TemplateStructure{}

	props, ok := raw["properties"].(map[string]any)
	if !ok {
		return structure
	}

	for name, value := range props {
		node, ok := value.(map[string]any)
		if !ok {
			continue
		}
		switch node["type"] {
		case "array":
			structure.ArrayFields = append(structure.ArrayFields, name)
		case "object":
			if structure.Nested == nil {
				structure.Nested = map[string]TemplateStructure{}
			}
			structure.Nested[name] = StructureFromSchema(node)
		default:
			structure.ScalarFields = append(structure.ScalarFields, name)
		}
	}
	return structure
}
