// Package window hosts the engine in a desktop window through ebiten
package window

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"github.com/lixenwraith/fireworks/engine"
	"github.com/lixenwraith/fireworks/parameter"
	"github.com/lixenwraith/fireworks/render"
	"github.com/lixenwraith/fireworks/status"
	"github.com/lixenwraith/fireworks/surface"
)

// Options configures the window
type Options struct {
	Title      string
	Width      int
	Height     int
	FPS        int
	HUD        bool
	Background render.RGB
	Status     *status.Registry
}

// Game implements ebiten.Game and the engine host primitives
// ebiten drives the frame cadence: Update posts a frame and waits for the tick
type Game struct {
	ctx      context.Context
	opts     Options
	frames   chan struct{}
	done     <-chan struct{}
	observer *surface.Observer
	active   *atomic.Bool
	caption  atomic.Pointer[string]

	mu            sync.Mutex
	width, height int // Outside size reported by Layout
	pix           []byte
	pixW, pixH    int
	img           *ebiten.Image
}

// New creates the game adapter, ctx cancellation closes the window
func New(ctx context.Context, opts Options) *Game {
	if opts.Title == "" {
		opts.Title = parameter.WindowTitle
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = parameter.WindowWidth, parameter.WindowHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = parameter.DefaultFPS
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	return &Game{
		ctx:      ctx,
		opts:     opts,
		frames:   make(chan struct{}, 1),
		observer: surface.NewObserver(),
		active:   opts.Status.Bools.Get(status.KeyActive),
	}
}

// SetCaption shows text in the top left corner, empty hides it
func (g *Game) SetCaption(text string) {
	g.caption.Store(&text)
}

// EngineHost bundles the host primitives for engine.New
func (g *Game) EngineHost(rng engine.Rand, clock engine.TimeProvider) engine.Host {
	return engine.Host{
		Container: g,
		Viewport:  g,
		Resize:    g,
		Frames:    g.frames,
		Rand:      rng,
		Clock:     clock,
		Presenter: g,
		Status:    g.opts.Status,
	}
}

// Bind connects the engine's tick completion signal, must precede Run
func (g *Game) Bind(e *engine.Engine) {
	g.done = e.UpdateDone()
}

// Bounds is the last outside size ebiten reported
func (g *Game) Bounds() (int, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.width <= 0 || g.height <= 0 {
		return 0, 0, false
	}
	return g.width, g.height, true
}

// Size is the viewport fallback: the monitor, then the configured window size
func (g *Game) Size() (int, int) {
	if m := ebiten.Monitor(); m != nil {
		if w, h := m.Size(); w > 0 && h > 0 {
			return w, h
		}
	}
	return g.opts.Width, g.opts.Height
}

func (g *Game) OnResize(fn func()) func() {
	return g.observer.OnResize(fn)
}

// Acquire always succeeds, the window exists for the whole RunGame call
func (g *Game) Acquire() error {
	return nil
}

// Present stages the canvas as premultiplied RGBA for the next Draw
func (g *Game) Present(c *render.Canvas) {
	w, h := c.Size()
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := w * h * 4; cap(g.pix) < n {
		g.pix = make([]byte, n)
	} else {
		g.pix = g.pix[:n]
	}
	g.pixW, g.pixH = w, h
	c.WriteRGBA(g.pix)
}

// Release drops the staged frame
func (g *Game) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pix = g.pix[:0]
	g.pixW, g.pixH = 0, 0
}

// Update posts one frame and waits, bounded, for the engine tick
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	select {
	case g.frames <- struct{}{}:
	default:
	}

	// Only wait while mounted, a countdown leaves the frames unconsumed
	if g.done != nil && g.active.Load() {
		select {
		case <-g.done:
		case <-time.After(parameter.FrameWaitTimeout):
		}
	}
	return nil
}

// Draw uploads the staged frame over the background
func (g *Game) Draw(screen *ebiten.Image) {
	bg := g.opts.Background
	screen.Fill(rgba{bg.R, bg.G, bg.B})

	g.drawFrame(screen)

	if c := g.caption.Load(); c != nil && *c != "" {
		ebitenutil.DebugPrint(screen, *c)
	} else if g.opts.HUD {
		ebitenutil.DebugPrint(screen, g.opts.Status.Summary())
	}
}

func (g *Game) drawFrame(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pixW == 0 || g.pixH == 0 {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != g.pixW || g.img.Bounds().Dy() != g.pixH {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(g.pixW, g.pixH)
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

// Layout tracks the outside size and notifies the engine when it changes
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	changed := outsideWidth != g.width || outsideHeight != g.height
	g.width, g.height = outsideWidth, outsideHeight
	g.mu.Unlock()

	if changed {
		g.observer.Notify()
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.opts.FPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run window")
	}
	return nil
}

// rgba is an opaque color.Color
type rgba struct {
	r, g, b uint8
}

func (c rgba) RGBA() (r, g, b, a uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, 0xffff
}
