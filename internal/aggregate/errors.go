package aggregate

import "errors"

var (
	ErrCircuitOpen     = errors.New("aggregate: circuit breaker is open")
	ErrRuleNotCompiled = errors.New("aggregate: derivation rule was not constructed via NewDerivationRule")
	ErrNilResult       = errors.New("aggregate: aggregation result is required")
)
