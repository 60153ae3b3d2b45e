package aggregate

// breakerState models the two circuit breaker positions. There is no
// half-open state: an Open breaker stays open until the owning Aggregator is
// recreated.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
)

// breaker counts consecutive per-dataset evaluation failures. It is owned by
// a single Aggregator instance and is not safe for unsynchronized concurrent
// use.
type breaker struct {
	threshold   int
	consecutive int
	state       breakerState
	disabled    bool
}

func newBreaker(threshold int) *breaker {
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	return &breaker{threshold: threshold}
}

func newDisabledBreaker() *breaker {
	return &breaker{disabled: true}
}

func (b *breaker) open() bool {
	return b.state == stateOpen
}

func (b *breaker) recordFailure() {
	if b.disabled {
		return
	}
	b.consecutive++
	if b.consecutive >= b.threshold {
		b.state = stateOpen
	}
}

func (b *breaker) recordSuccess() {
	if b.disabled {
		return
	}
	b.consecutive = 0
}
