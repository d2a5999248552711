// Package status is a lock-free metrics registry shared by the engine and its hosts
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metric names written by the engine
const (
	KeyTicks         = "engine.ticks"
	KeyBursts        = "engine.bursts"
	KeyActive        = "engine.active"
	KeyMode          = "engine.mode"
	KeyParticles     = "particles.live"
	KeySurfaceWidth  = "surface.width"
	KeySurfaceHeight = "surface.height"
	KeyFPS           = "host.fps"
)

// Registry groups metric maps by value type
// Writers cache pointers at setup and store through them per frame
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
	Labels *MetricMap[AtomicLabel]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
		Labels: NewMetricMap[AtomicLabel](),
	}
}

// TotalCount returns the number of registered metrics of every type
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Labels.Count()
}

// Summary renders the HUD line: mode, live particles, bursts, ticks and surface size
func (r *Registry) Summary() string {
	var b strings.Builder
	if mode := r.Labels.Get(KeyMode).Load(); mode != "" {
		b.WriteString(mode)
		b.WriteString("  ")
	}
	fmt.Fprintf(&b, "particles %d  bursts %d  ticks %d  %dx%d",
		r.Ints.Get(KeyParticles).Load(),
		r.Ints.Get(KeyBursts).Load(),
		r.Ints.Get(KeyTicks).Load(),
		r.Ints.Get(KeySurfaceWidth).Load(),
		r.Ints.Get(KeySurfaceHeight).Load(),
	)
	if fps := r.Floats.Get(KeyFPS).Get(); fps > 0 {
		fmt.Fprintf(&b, "  %.0ffps", fps)
	}
	if !r.Bools.Get(KeyActive).Load() {
		b.WriteString("  idle")
	}
	return b.String()
}

// Dump writes every metric as key=value lines in key order
func (r *Registry) Dump() string {
	var b strings.Builder
	r.Bools.Range(func(k string, v *atomic.Bool) { fmt.Fprintf(&b, "%s=%t\n", k, v.Load()) })
	r.Ints.Range(func(k string, v *atomic.Int64) { fmt.Fprintf(&b, "%s=%d\n", k, v.Load()) })
	r.Floats.Range(func(k string, v *AtomicFloat) { fmt.Fprintf(&b, "%s=%g\n", k, v.Get()) })
	r.Labels.Range(func(k string, v *AtomicLabel) { fmt.Fprintf(&b, "%s=%s\n", k, v.Load()) })
	return b.String()
}
