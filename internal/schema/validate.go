package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileCheck ensures the schema document compiles as Draft 2020-12 JSON
// Schema. Directive keys are unknown keywords to the compiler and pass
// through untouched; this is a well-formedness guard, not full validation.
func CompileCheck(raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := compile(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

func compile(raw map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}
