package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as its bit pattern, zero value reads 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// MaxLabelLen bounds label metrics so the HUD line stays short
const MaxLabelLen = 16

// AtomicLabel holds a short string such as the active preset name
type AtomicLabel struct {
	ptr atomic.Pointer[string]
}

// Store sets the label, truncating to MaxLabelLen bytes
func (l *AtomicLabel) Store(val string) {
	if len(val) > MaxLabelLen {
		val = val[:MaxLabelLen]
	}
	l.ptr.Store(&val)
}

func (l *AtomicLabel) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
