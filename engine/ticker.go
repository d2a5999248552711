package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is the host periodic-timer primitive
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d
type TickerFunc func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

// NewRealTicker wraps time.Ticker
func NewRealTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// ManualTicker fires only when told to, for deterministic scheduling
type ManualTicker struct {
	ch       chan time.Time
	stopped  atomic.Bool
	mu       sync.Mutex
	interval time.Duration
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

// Factory returns a TickerFunc that hands out this ticker and records the interval
func (m *ManualTicker) Factory() TickerFunc {
	return func(d time.Duration) Ticker {
		m.mu.Lock()
		m.interval = d
		m.mu.Unlock()
		m.stopped.Store(false)
		return m
	}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

func (m *ManualTicker) Stop() { m.stopped.Store(true) }

// Stopped reports whether the consumer released the ticker
func (m *ManualTicker) Stopped() bool { return m.stopped.Load() }

// Interval returns the period requested by the last Factory call
func (m *ManualTicker) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Fire hands one tick to the consumer, false if nobody received within timeout
func (m *ManualTicker) Fire(timeout time.Duration) bool {
	select {
	case m.ch <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}
