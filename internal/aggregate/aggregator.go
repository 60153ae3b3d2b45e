// Package aggregate merges datasets extracted from many documents by applying
// derivation rules, with optional deduplication and a deep merge into a base
// structure.
package aggregate

import (
	"fmt"
	"reflect"
	"strings"

	"dario.cat/mergo"

	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

const defaultFailureThreshold = 5

// Result holds derived field sequences keyed by their target path. Iteration
// over Targets follows rule input order.
type Result struct {
	derived map[string][]any
	targets []string
}

// DerivedField returns the values derived for a target path.
func (r *Result) DerivedField(target string) ([]any, bool) {
	values, ok := r.derived[target]
	return values, ok
}

// Targets lists the populated target paths in rule order.
func (r *Result) Targets() []string {
	return append([]string(nil), r.targets...)
}

// Aggregator evaluates derivation rules across datasets. Each instance owns a
// circuit breaker; callers needing concurrency should use one Aggregator per
// aggregation batch.
type Aggregator struct {
	breaker *breaker
	logger  interfaces.Logger
}

// Option customises Aggregator construction.
type Option func(*Aggregator)

// WithLogger attaches a logger to the aggregator.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFailureThreshold overrides how many consecutive evaluation failures
// trip the breaker.
func WithFailureThreshold(threshold int) Option {
	return func(a *Aggregator) {
		a.breaker = newBreaker(threshold)
	}
}

// New constructs an Aggregator with an armed circuit breaker.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		breaker: newBreaker(defaultFailureThreshold),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewWithoutBreaker constructs an Aggregator whose breaker is permanently
// closed. Use it when aggregation must always be attempted, e.g. batch jobs
// with external retry logic.
func NewWithoutBreaker(opts ...Option) *Aggregator {
	a := New(opts...)
	a.breaker = newDisabledBreaker()
	return a
}

// Aggregate evaluates every rule against every dataset in input order and
// returns the derived field sequences. Matches concatenate across datasets
// (dataset order, then within-dataset match order); unique rules keep only
// the first occurrence of each value.
func (a *Aggregator) Aggregate(datasets []interfaces.FrontmatterDataset, rules []DerivationRule) (*Result, error) {
	if a.breaker.open() {
		return nil, ErrCircuitOpen
	}

	result := &Result{derived: make(map[string][]any, len(rules))}
	for _, rule := range rules {
		matches := make([]any, 0)
		for i, dataset := range datasets {
			values, err := rule.evaluate(dataset)
			if err != nil {
				a.breaker.recordFailure()
				return nil, fmt.Errorf("aggregate: rule %s dataset %d: %w", rule.Target(), i, err)
			}
			a.breaker.recordSuccess()
			matches = append(matches, values...)
		}
		if rule.Unique() {
			matches = dedupe(matches)
		}
		if _, seen := result.derived[rule.Target()]; !seen {
			result.targets = append(result.targets, rule.Target())
		}
		result.derived[rule.Target()] = matches
		a.logger.Debug("rule aggregated", "target", rule.Target(), "matches", len(matches))
	}
	return result, nil
}

// MergeWithBase deep-merges the derived fields into a copy of base. Derived
// values are written at their dotted target paths, creating intermediate
// objects as needed; existing base values always win over derived ones.
func (a *Aggregator) MergeWithBase(result *Result, base interfaces.FrontmatterDataset) (map[string]any, error) {
	if result == nil {
		return nil, ErrNilResult
	}

	derivedTree := map[string]any{}
	for _, target := range result.targets {
		writePath(derivedTree, target, result.derived[target])
	}

	merged := deepCopy(base)
	if merged == nil {
		merged = map[string]any{}
	}
	if err := mergo.Merge(&merged, derivedTree); err != nil {
		return nil, fmt.Errorf("aggregate: merge with base: %w", err)
	}
	return merged, nil
}

// dedupe keeps first occurrences, comparing by deep equality so object
// values dedupe the same way scalars do.
func dedupe(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		duplicate := false
		for _, kept := range out {
			if reflect.DeepEqual(kept, value) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, value)
		}
	}
	return out
}

func writePath(tree map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	node := tree
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

func deepCopy(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = deepCopy(typed)
		case []any:
			out[key] = append([]any(nil), typed...)
		default:
			out[key] = value
		}
	}
	return out
}
