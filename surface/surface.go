// @focus: #surface { sizing }
package surface

import (
	"sync"

	"github.com/lixenwraith/fireworks/render"
)

// Container is the host element that scopes the drawing area
// ok is false when the container is detached or cannot be measured
type Container interface {
	Bounds() (width, height int, ok bool)
}

// Viewport is the host's whole visible area, used when the container yields nothing
type Viewport interface {
	Size() (width, height int)
}

// ResizeNotifier delivers host resize notifications
// The returned release unregisters fn; after it returns fn is never called again
type ResizeNotifier interface {
	OnResize(fn func()) (release func())
}

// ViewportFunc adapts a function to Viewport
type ViewportFunc func() (int, int)

func (f ViewportFunc) Size() (int, int) { return f() }

// RenderSurface owns the canvas and keeps its size matched to the host
// Not safe for concurrent use; the engine calls it from its domain only
type RenderSurface struct {
	container Container
	viewport  Viewport
	canvas    *render.Canvas
}

// New creates an unbound zero-size surface
func New(viewport Viewport) *RenderSurface {
	return &RenderSurface{
		viewport: viewport,
		canvas:   render.NewCanvas(0, 0),
	}
}

// Bind attaches a container, nil unbinds
func (s *RenderSurface) Bind(c Container) {
	s.container = c
}

// Measure applies the sizing policy without touching the canvas
// Each dimension takes the container value when positive, otherwise the viewport value
func (s *RenderSurface) Measure() (int, int) {
	var vw, vh int
	if s.viewport != nil {
		vw, vh = s.viewport.Size()
	}
	if s.container == nil {
		return max(vw, 0), max(vh, 0)
	}

	cw, ch, ok := s.container.Bounds()
	if !ok {
		return max(vw, 0), max(vh, 0)
	}
	if cw <= 0 {
		cw = vw
	}
	if ch <= 0 {
		ch = vh
	}
	return max(cw, 0), max(ch, 0)
}

// Fit measures and resizes, returns the new size and whether it changed
// An unchanged size keeps canvas content
func (s *RenderSurface) Fit() (int, int, bool) {
	w, h := s.Measure()
	if cw, ch := s.canvas.Size(); cw == w && ch == h {
		return w, h, false
	}
	s.Resize(w, h)
	return w, h, true
}

// Resize applies a size, clearing content; negative values clamp to zero
func (s *RenderSurface) Resize(width, height int) {
	s.canvas.Resize(width, height)
}

// Size returns the current canvas size
func (s *RenderSurface) Size() (int, int) {
	return s.canvas.Size()
}

// Canvas returns the drawing target
func (s *RenderSurface) Canvas() *render.Canvas {
	return s.canvas
}

// Observer is a ResizeNotifier for hosts that receive resize events on their own goroutine
// Notify runs subscribers under a read lock so release waits out an in-flight delivery
type Observer struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func()
}

// NewObserver creates an empty resize observer
func NewObserver() *Observer {
	return &Observer{subs: make(map[uint64]func())}
}

// OnResize registers fn, the release func is idempotent
func (o *Observer) OnResize(fn func()) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

// Notify calls every registered subscriber
// Subscribers must not release from within the callback
func (o *Observer) Notify() {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, fn := range o.subs {
		fn()
	}
}

// Len returns the subscriber count
func (o *Observer) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}
