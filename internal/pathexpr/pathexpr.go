// Package pathexpr implements the restricted path query language used by
// derivation rules and schema directives: dotted field access, a "[]" suffix
// that flattens an array and continues the path into each element, and
// "[?field op 'value']" filters over array elements.
//
// Evaluation is deliberately lenient: a missing field, a type mismatch, or a
// null/empty leaf contributes no value instead of failing. Only structurally
// invalid expressions produce errors, and those surface at parse time.
package pathexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyExpression indicates a blank path expression.
	ErrEmptyExpression = errors.New("pathexpr: expression is empty")
)

// SyntaxError reports a structurally invalid expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pathexpr: invalid expression %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

type segmentKind int

const (
	segField segmentKind = iota
	segFlatten
	segFilter
)

type segment struct {
	kind  segmentKind
	field string
	pred  predicate
}

type predicate struct {
	path  []string
	op    string
	value any
}

// Expression is a parsed, reusable path query.
type Expression struct {
	raw      string
	segments []segment
}

// String returns the original expression text.
func (e *Expression) String() string { return e.raw }

// Parse validates and compiles a path expression.
func Parse(expr string) (*Expression, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, ErrEmptyExpression
	}

	p := &parser{expr: trimmed}
	segments, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Expression{raw: trimmed, segments: segments}, nil
}

// Evaluate parses expr and evaluates it against value in one call.
func Evaluate(expr string, value any) ([]any, error) {
	compiled, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(value), nil
}

// Evaluate walks value and returns every matched leaf in source order,
// duplicates included. The result is never nil for a valid expression; an
// empty slice means nothing matched.
func (e *Expression) Evaluate(value any) []any {
	nodes := []any{value}
	for _, seg := range e.segments {
		nodes = applySegment(nodes, seg)
		if len(nodes) == 0 {
			return []any{}
		}
	}

	out := make([]any, 0, len(nodes))
	for _, node := range nodes {
		if isMissing(node) {
			continue
		}
		out = append(out, node)
	}
	return out
}

func applySegment(nodes []any, seg segment) []any {
	next := make([]any, 0, len(nodes))
	for _, node := range nodes {
		switch seg.kind {
		case segField:
			obj, ok := node.(map[string]any)
			if !ok {
				continue
			}
			child, ok := obj[seg.field]
			if !ok || isMissing(child) {
				continue
			}
			next = append(next, child)
		case segFlatten:
			arr, ok := node.([]any)
			if !ok {
				continue
			}
			next = append(next, arr...)
		case segFilter:
			arr, ok := node.([]any)
			if !ok {
				continue
			}
			for _, element := range arr {
				if seg.pred.matches(element) {
					next = append(next, element)
				}
			}
		}
	}
	return next
}

func (p predicate) matches(element any) bool {
	node := element
	for _, field := range p.path {
		obj, ok := node.(map[string]any)
		if !ok {
			return false
		}
		node, ok = obj[field]
		if !ok {
			return false
		}
	}
	return compare(node, p.op, p.value)
}

func compare(left any, op string, right any) bool {
	if ln, lok := asNumber(left); lok {
		if rn, rok := asNumber(right); rok {
			switch op {
			case "==":
				return ln == rn
			case "!=":
				return ln != rn
			case "<":
				return ln < rn
			case "<=":
				return ln <= rn
			case ">":
				return ln > rn
			case ">=":
				return ln >= rn
			}
			return false
		}
	}

	switch op {
	case "==":
		return looseEqual(left, right)
	case "!=":
		return !looseEqual(left, right)
	}
	// Ordered comparisons only apply to numbers.
	return false
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		return ab == bb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asNumber(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	}
	return 0, false
}

// isMissing reports whether a leaf counts as "no value" under the lenient
// evaluation contract.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

type parser struct {
	expr string
	pos  int
}

func (p *parser) parse() ([]segment, error) {
	var segments []segment
	for p.pos < len(p.expr) {
		switch {
		case p.expr[p.pos] == '.':
			if len(segments) == 0 || p.pos == len(p.expr)-1 {
				return nil, p.errorf("unexpected '.'")
			}
			if p.expr[p.pos+1] == '.' {
				return nil, p.errorf("empty segment between '.'")
			}
			p.pos++
		case p.expr[p.pos] == '[':
			seg, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		default:
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment{kind: segField, field: field})
		}
	}
	if len(segments) == 0 {
		return nil, p.errorf("expression has no segments")
	}
	return segments, nil
}

func (p *parser) parseField() (string, error) {
	start := p.pos
	for p.pos < len(p.expr) && p.expr[p.pos] != '.' && p.expr[p.pos] != '[' {
		p.pos++
	}
	field := p.expr[start:p.pos]
	if strings.TrimSpace(field) == "" {
		return "", p.errorf("empty field name")
	}
	return field, nil
}

func (p *parser) parseBracket() (segment, error) {
	end := strings.IndexByte(p.expr[p.pos:], ']')
	if end < 0 {
		return segment{}, p.errorf("unterminated '['")
	}
	inner := p.expr[p.pos+1 : p.pos+end]
	p.pos += end + 1

	if inner == "" {
		return segment{kind: segFlatten}, nil
	}
	if !strings.HasPrefix(inner, "?") {
		return segment{}, p.errorf("unsupported bracket expression %q", inner)
	}
	pred, err := p.parsePredicate(strings.TrimSpace(inner[1:]))
	if err != nil {
		return segment{}, err
	}
	return segment{kind: segFilter, pred: pred}, nil
}

var predicateOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *parser) parsePredicate(body string) (predicate, error) {
	if body == "" {
		return predicate{}, p.errorf("empty filter predicate")
	}

	opIndex := -1
	op := ""
	for _, candidate := range predicateOps {
		if idx := strings.Index(body, candidate); idx >= 0 && (opIndex < 0 || idx < opIndex) {
			opIndex = idx
			op = candidate
		}
	}
	if opIndex <= 0 {
		return predicate{}, p.errorf("filter predicate %q has no comparison", body)
	}

	lhs := strings.TrimSpace(body[:opIndex])
	rhs := strings.TrimSpace(body[opIndex+len(op):])
	if lhs == "" || rhs == "" {
		return predicate{}, p.errorf("filter predicate %q is incomplete", body)
	}

	path := strings.Split(lhs, ".")
	for _, field := range path {
		if strings.TrimSpace(field) == "" {
			return predicate{}, p.errorf("filter predicate %q has an empty field", body)
		}
	}

	value, err := p.parseLiteral(rhs)
	if err != nil {
		return predicate{}, err
	}
	return predicate{path: path, op: op, value: value}, nil
}

func (p *parser) parseLiteral(text string) (any, error) {
	if strings.HasPrefix(text, "'") {
		if len(text) < 2 || !strings.HasSuffix(text, "'") {
			return nil, p.errorf("unterminated string literal %q", text)
		}
		return text[1 : len(text)-1], nil
	}
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if number, err := strconv.ParseFloat(text, 64); err == nil {
		return number, nil
	}
	return nil, p.errorf("unsupported literal %q", text)
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Expr: p.expr, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}
