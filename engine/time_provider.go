package engine

import "time"

// TimeProvider is the clock the engine reads for frame pacing metrics
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads wall time with its monotonic component
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns time.Now, which carries a monotonic reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
