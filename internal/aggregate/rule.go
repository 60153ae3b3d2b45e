package aggregate

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tettuan/frontmatter-to-schema/internal/pathexpr"
)

// DerivationRule maps a source path expression to a dotted target path. Rules
// are only constructed through NewDerivationRule so an invalid expression
// fails at construction, never during aggregation.
type DerivationRule struct {
	source   string
	target   string
	unique   bool
	compiled *pathexpr.Expression
}

// NewDerivationRule validates the inputs and compiles the source expression.
func NewDerivationRule(sourcePathExpr, targetPath string, unique bool) (DerivationRule, error) {
	if err := validateRuleInput(sourcePathExpr, targetPath); err != nil {
		return DerivationRule{}, err
	}

	compiled, err := pathexpr.Parse(sourcePathExpr)
	if err != nil {
		return DerivationRule{}, err
	}

	return DerivationRule{
		source:   strings.TrimSpace(sourcePathExpr),
		target:   strings.TrimSpace(targetPath),
		unique:   unique,
		compiled: compiled,
	}, nil
}

func validateRuleInput(source, target string) error {
	errs := validation.Errors{}
	if strings.TrimSpace(source) == "" {
		errs["sourcePathExpr"] = validation.NewError(
			"aggregate.rule.source_required", "source path expression is required")
	}
	if strings.TrimSpace(target) == "" {
		errs["targetPath"] = validation.NewError(
			"aggregate.rule.target_required", "target path is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Source returns the raw source path expression.
func (r DerivationRule) Source() string { return r.source }

// Target returns the dotted target path.
func (r DerivationRule) Target() string { return r.target }

// Unique reports whether duplicate derived values are dropped.
func (r DerivationRule) Unique() bool { return r.unique }

func (r DerivationRule) evaluate(dataset map[string]any) ([]any, error) {
	if r.compiled == nil {
		return nil, ErrRuleNotCompiled
	}
	return r.compiled.Evaluate(dataset), nil
}
