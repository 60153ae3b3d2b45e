// Package render substitutes placeholders into template text and expands item
// arrays, writing the result through injected collaborators. Unresolved
// placeholders are a hard error: rendered output never contains a literal
// {{name}} or {@items} token.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tettuan/frontmatter-to-schema/internal/templatectx"
)

// ItemsMarker is the reserved array-expansion token.
const ItemsMarker = "{@items}"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Renderer performs placeholder substitution against a rendering context. It
// is stateless and safe to share.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderString substitutes every scalar placeholder in template using ctx.
// The template must not contain the {@items} marker; expansion is the
// rendering service's job, and a marker surviving to this point means no
// items were available for it.
func (r *Renderer) RenderString(template string, ctx *templatectx.Context) (string, error) {
	if strings.Contains(template, ItemsMarker) {
		return "", ErrItemsNotAvailable
	}
	return r.substitute(template, ctx)
}

func (r *Renderer) substitute(template string, ctx *templatectx.Context) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		value, err := templatectx.ResolveVariable(ctx, name)
		if err != nil {
			if firstErr == nil {
				firstErr = &UnresolvedPlaceholderError{Name: name}
			}
			return token
		}
		text, err := formatValue(value)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("render: placeholder %s: %w", name, err)
			}
			return token
		}
		return text
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// formatValue turns a resolved value into template text. Scalars render
// bare; composite values render as JSON, which stays valid inside YAML flow
// contexts as well.
func formatValue(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case nil:
		return "null", nil
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
