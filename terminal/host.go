// @focus: #sys { term }
// Package terminal hosts the engine on a tcell screen
// Each cell shows two vertical canvas pixels through the upper half block glyph
package terminal

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/lixenwraith/fireworks/core"
	"github.com/lixenwraith/fireworks/engine"
	"github.com/lixenwraith/fireworks/parameter"
	"github.com/lixenwraith/fireworks/render"
	"github.com/lixenwraith/fireworks/status"
	"github.com/lixenwraith/fireworks/surface"
)

// HalfBlock paints the upper pixel as foreground and the lower as background
const HalfBlock = '▀'

// ErrQuit is returned by Pump when the user asks to leave
var ErrQuit = errors.New("terminal: quit requested")

// Options configures a Host
type Options struct {
	FrameInterval time.Duration
	HUD           bool
	Background    render.RGB
	Status        *status.Registry
}

// Host adapts a tcell screen to the engine's container, viewport, frame source,
// resize notifier and presenter
type Host struct {
	screen   tcell.Screen
	opts     Options
	observer *surface.Observer
	frames   chan struct{}

	// Guards screen writes shared by Present and the countdown view
	drawMu sync.Mutex
}

// New wraps an initialized screen
func New(screen tcell.Screen, opts Options) *Host {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / parameter.DefaultFPS
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	return &Host{
		screen:   screen,
		opts:     opts,
		observer: surface.NewObserver(),
		frames:   make(chan struct{}, 1),
	}
}

// OpenScreen creates and initializes the real terminal screen
// The crash handler finalizes it so a panic leaves a usable terminal
func OpenScreen() (tcell.Screen, func(), error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "init screen")
	}
	screen.HideCursor()
	screen.Clear()

	restore := core.SetFinalizer(screen.Fini)
	var once sync.Once
	return screen, func() {
		once.Do(func() {
			restore()
			screen.Fini()
		})
	}, nil
}

// hudRows is the number of rows kept for the status line
func (h *Host) hudRows() int {
	if h.opts.HUD {
		return parameter.HUDRows
	}
	return 0
}

// Bounds reports the drawable area in canvas pixels, two per cell vertically
func (h *Host) Bounds() (int, int, bool) {
	cols, rows := h.screen.Size()
	rows -= h.hudRows()
	if cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	return cols, rows * 2, true
}

// Size is the viewport fallback: the controlling TTY, then a fixed 80x24
func (h *Host) Size() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = parameter.FallbackCols, parameter.FallbackRows
	}
	rows = max(rows-h.hudRows(), 1)
	return cols, rows * 2
}

// OnResize registers a resize callback, delivered from Pump
func (h *Host) OnResize(fn func()) func() {
	return h.observer.OnResize(fn)
}

// Frames is the per-frame signal channel fed by RunFrames
func (h *Host) Frames() <-chan struct{} {
	return h.frames
}

// RunFrames ticks at the frame interval until ctx is done
// A frame the engine has not consumed yet is coalesced with the next
func (h *Host) RunFrames(ctx context.Context, newTicker engine.TickerFunc) error {
	if newTicker == nil {
		newTicker = engine.NewRealTicker
	}
	ticker := newTicker(h.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			select {
			case h.frames <- struct{}{}:
			default:
			}
		}
	}
}

// Acquire checks the screen can show colors
func (h *Host) Acquire() error {
	if n := h.screen.Colors(); n < parameter.MinColors {
		return errors.Errorf("terminal supports %d colors, need %d", n, parameter.MinColors)
	}
	h.drawMu.Lock()
	h.screen.Clear()
	h.drawMu.Unlock()
	return nil
}

// Present composites the canvas over the background into half block cells
func (h *Host) Present(c *render.Canvas) {
	h.drawMu.Lock()
	defer h.drawMu.Unlock()

	cols, rows := h.screen.Size()
	rows -= h.hudRows()
	bg := h.opts.Background

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := c.Over(x, y*2, bg)
			bottom := c.Over(x, y*2+1, bg)
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			h.screen.SetContent(x, y, HalfBlock, nil, style)
		}
	}

	if h.opts.HUD {
		drawLine(h.screen, rows, cols, h.opts.Status.Summary(), hudStyle)
	}
	h.screen.Show()
}

// Release blanks the screen
func (h *Host) Release() {
	h.drawMu.Lock()
	defer h.drawMu.Unlock()
	h.screen.Clear()
	h.screen.Show()
}

// Pump dispatches screen events until quit, screen shutdown or ctx cancellation
// Returns ErrQuit on a quit key, nil otherwise
func (h *Host) Pump(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			h.screen.Sync()
			h.observer.Notify()
		case *tcell.EventKey:
			if isQuit(ev) {
				return ErrQuit
			}
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// isQuit matches Esc, q and Ctrl-C
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// EngineHost bundles the host primitives for engine.New
func (h *Host) EngineHost(rng engine.Rand, newTicker engine.TickerFunc, clock engine.TimeProvider) engine.Host {
	return engine.Host{
		Container: h,
		Viewport:  h,
		Resize:    h,
		Frames:    h.frames,
		NewTicker: newTicker,
		Rand:      rng,
		Clock:     clock,
		Presenter: h,
		Status:    h.opts.Status,
	}
}

func toColor(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
