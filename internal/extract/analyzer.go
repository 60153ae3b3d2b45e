package extract

import (
	"context"
	"fmt"

	"github.com/tettuan/frontmatter-to-schema/internal/pathexpr"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// NoopAnalyzer satisfies the Analyzer contract without producing records.
// It stands in where no fallback analysis is configured.
type NoopAnalyzer struct{}

var _ interfaces.Analyzer = NoopAnalyzer{}

// Analyze returns an empty extraction result.
func (NoopAnalyzer) Analyze(context.Context, *interfaces.Document, map[string]any) (*interfaces.ExtractedInfo, error) {
	return &interfaces.ExtractedInfo{}, nil
}

// FieldRule maps one record field to a query over the document dataset. The
// first match wins; a rule with no match leaves the field unset.
type FieldRule struct {
	Field string
	Query string
}

// RuleAnalyzer synthesizes a single record per document from configured field
// rules. It covers documents that carry the relevant metadata outside the
// designated frontmatter part.
type RuleAnalyzer struct {
	rules []compiledRule
}

type compiledRule struct {
	field string
	expr  *pathexpr.Expression
}

var _ interfaces.Analyzer = (*RuleAnalyzer)(nil)

// NewRuleAnalyzer compiles the field rules up front so Analyze cannot fail on
// query syntax.
func NewRuleAnalyzer(rules []FieldRule) (*RuleAnalyzer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		expr, err := pathexpr.Parse(rule.Query)
		if err != nil {
			return nil, fmt.Errorf("extract: compile rule for field %q: %w", rule.Field, err)
		}
		compiled = append(compiled, compiledRule{field: rule.Field, expr: expr})
	}
	return &RuleAnalyzer{rules: compiled}, nil
}

// Analyze evaluates every rule against the document dataset and assembles one
// record from the fields that matched. Documents matching no rule yield no
// records.
func (a *RuleAnalyzer) Analyze(ctx context.Context, doc *interfaces.Document, _ map[string]any) (*interfaces.ExtractedInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNilDocument
	}

	dataset := doc.Dataset()
	record := map[string]any{}
	for _, rule := range a.rules {
		matches := rule.expr.Evaluate(dataset)
		if len(matches) == 0 {
			continue
		}
		record[rule.field] = matches[0]
	}

	if len(record) == 0 {
		return &interfaces.ExtractedInfo{}, nil
	}
	return &interfaces.ExtractedInfo{
		Records: []map[string]any{record},
		Notes:   "derived from document metadata outside the frontmatter part",
	}, nil
}
