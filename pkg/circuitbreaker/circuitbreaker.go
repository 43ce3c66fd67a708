package circuitbreaker

import "github.com/sony/gobreaker"

var (
	// MaxNumOfFailingRequests is the default number of failures before the
	// breaker can trip.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the default failures over requests ratio tripping the
	// breaker.
	FailingRatio = 0.6
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// with a state-changing function that activates if the overall number of
// failing requests has exceeded maxFailures and the failing ratio has met
// failingRatio. Zero values fall back to MaxNumOfFailingRequests and
// FailingRatio.
func NewCircuitBreaker(
	name string, maxFailures int, failingRatio float64,
) *gobreaker.CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = MaxNumOfFailingRequests
	}
	if failingRatio <= 0 {
		failingRatio = FailingRatio
	}
	if len(name) <= 0 {
		name = "circuitbreaker"
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > maxFailures && ratio >= failingRatio
		},
	})
}
