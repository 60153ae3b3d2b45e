package templatectx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVariableNotFound is the sentinel wrapped by every resolution failure.
var ErrVariableNotFound = errors.New("templatectx: variable not found")

// NotFoundError reports the exact name that failed to resolve.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("templatectx: variable %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrVariableNotFound }

// ResolveVariable looks a placeholder name up against the context. Lookup
// order: reserved @-names, exact top-level main variables, then dotted-path
// descent into nested objects.
func ResolveVariable(ctx *Context, name string) (any, error) {
	if strings.HasPrefix(name, "@") {
		return resolveReserved(ctx, name)
	}

	if value, ok := ctx.mainVariables[name]; ok {
		return value, nil
	}

	if strings.Contains(name, ".") {
		if value, ok := descend(ctx.mainVariables, name); ok {
			return value, nil
		}
	}

	return nil, &NotFoundError{Name: name}
}

func resolveReserved(ctx *Context, name string) (any, error) {
	if name == VarItems {
		// @items only exists in composed mode; a flat context fails by
		// contract even when a same-named entry happens to be present.
		if ctx.hierarchy != HierarchyComposed {
			return nil, &NotFoundError{Name: name}
		}
		if value, ok := ctx.variableContext[VarItems]; ok {
			return value, nil
		}
		return ctx.itemsData, nil
	}

	if value, ok := ctx.variableContext[name]; ok {
		return value, nil
	}
	return nil, &NotFoundError{Name: name}
}

func descend(node map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = node
	for _, segment := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
