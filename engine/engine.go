// Package engine mounts the particle system on a host: it owns the frame and burst
// schedulers, the render surface and the release of everything acquired on activation
package engine

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/fireworks/particle"
	"github.com/lixenwraith/fireworks/render"
	"github.com/lixenwraith/fireworks/status"
	"github.com/lixenwraith/fireworks/surface"
)

// Presenter pushes finished frames to the host display
// Acquire failing means the host has no drawable target
type Presenter interface {
	Acquire() error
	Present(c *render.Canvas)
	Release()
}

// Host is everything the engine consumes from its environment
// Only Frames is required
type Host struct {
	Container surface.Container      // Sizing scope, nil falls back to Viewport
	Viewport  surface.Viewport       // Whole visible area
	Resize    surface.ResizeNotifier // Resize notifications, nil disables refit
	Frames    <-chan struct{}        // One signal per renderable frame
	NewTicker TickerFunc             // Periodic timer, nil uses time.Ticker
	Rand      Rand                   // Uniform source, nil seeds from time
	Clock     TimeProvider           // Frame pacing clock, nil uses time.Now
	Presenter Presenter              // Frame sink, nil draws offscreen only
	Status    *status.Registry       // Metrics sink, nil allocates a private one
}

// Config is the tuning for one engine instance
type Config struct {
	Particle          particle.Config
	Mode              render.Mode
	FadeAlpha         float64
	BurstInterval     time.Duration
	ParticlesPerBurst int
	Palette           []render.RGB
	Label             string // Shown by hosts, usually the preset name
}

type lifecycle int

const (
	lifeIdle lifecycle = iota
	lifeActive
	lifeDeactivated
)

// Engine is one mount of the fireworks animation
// Frame, burst and resize callbacks all run inside runSafe and never overlap
type Engine struct {
	cfg  Config
	host Host

	// Domain lock, serializes every callback touching surface or particles
	mu      sync.Mutex
	surface *surface.RenderSurface
	system  *particle.System
	comp    render.Compositor

	frames     *FrameScheduler
	bursts     *BurstScheduler
	updateDone <-chan struct{}

	// Lifecycle, separate from the domain so Deactivate never waits on a tick while holding it
	lifeMu   sync.Mutex
	life     lifecycle
	releases []func()
	once     sync.Once

	lastFrame time.Time

	// Cached metric pointers
	statTicks     *atomic.Int64
	statBursts    *atomic.Int64
	statParticles *atomic.Int64
	statWidth     *atomic.Int64
	statHeight    *atomic.Int64
	statActive    *atomic.Bool
	statFPS       *status.AtomicFloat
}

// New builds an idle engine, filling optional host primitives with defaults
func New(cfg Config, host Host) (*Engine, error) {
	if host.Frames == nil {
		return nil, ErrNoFrameSource
	}
	if host.NewTicker == nil {
		host.NewTicker = NewRealTicker
	}
	if host.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		host.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if host.Clock == nil {
		host.Clock = NewMonotonicTimeProvider()
	}
	if host.Status == nil {
		host.Status = status.NewRegistry()
	}

	e := &Engine{
		cfg:     cfg,
		host:    host,
		surface: surface.New(host.Viewport),
		system:  particle.NewSystem(cfg.Particle, host.Rand),
		comp:    render.NewCompositor(cfg.Mode, cfg.FadeAlpha),
	}

	reg := host.Status
	e.statTicks = reg.Ints.Get(status.KeyTicks)
	e.statBursts = reg.Ints.Get(status.KeyBursts)
	e.statParticles = reg.Ints.Get(status.KeyParticles)
	e.statWidth = reg.Ints.Get(status.KeySurfaceWidth)
	e.statHeight = reg.Ints.Get(status.KeySurfaceHeight)
	e.statActive = reg.Bools.Get(status.KeyActive)
	e.statFPS = reg.Floats.Get(status.KeyFPS)
	label := cfg.Label
	if label == "" {
		label = cfg.Mode.String()
	}
	reg.Labels.Get(status.KeyMode).Store(label)

	e.frames, e.updateDone = NewFrameScheduler(host.Frames, e.frameTick)
	e.bursts = NewBurstScheduler(BurstConfig{
		Interval: cfg.BurstInterval,
		Count:    cfg.ParticlesPerBurst,
		Palette:  cfg.Palette,
	}, burstTarget{e}, host.Rand, host.NewTicker, e.runSafe)

	return e, nil
}

// runSafe executes fn while holding the domain lock
func (e *Engine) runSafe(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Activate mounts the engine: presenter, surface fit, resize observer, bursts, frames
// Every acquisition registers its release; a failure part way releases what was taken
func (e *Engine) Activate() (err error) {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	switch e.life {
	case lifeActive:
		return ErrAlreadyActive
	case lifeDeactivated:
		return ErrDeactivated
	}

	done := false
	defer func() {
		if !done {
			e.unwind()
		}
	}()

	if p := e.host.Presenter; p != nil {
		if aerr := p.Acquire(); aerr != nil {
			return errors.WithMessage(ErrUnavailableSurface, aerr.Error())
		}
		e.push(p.Release)
	}

	e.runSafe(func() {
		e.surface.Bind(e.host.Container)
		e.fitLocked()
	})
	e.push(func() {
		e.runSafe(func() { e.surface.Bind(nil) })
	})

	if n := e.host.Resize; n != nil {
		e.push(n.OnResize(e.onResize))
	}

	e.bursts.Start()
	e.push(e.bursts.Stop)

	e.frames.Start()
	e.push(e.frames.Stop)

	e.life = lifeActive
	e.statActive.Store(true)
	done = true
	return nil
}

// Deactivate releases everything Activate acquired, in reverse order, exactly once
// Safe from any goroutine except a frame or burst callback
func (e *Engine) Deactivate() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	e.life = lifeDeactivated
	e.once.Do(func() {
		e.unwind()
		e.runSafe(func() {
			e.system.Reset()
			e.statParticles.Store(0)
		})
		e.statActive.Store(false)
	})
}

// Run activates, blocks until ctx is done, then deactivates on every exit path
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Activate(); err != nil {
		return err
	}
	defer e.Deactivate()

	<-ctx.Done()
	return nil
}

// push records a release, caller holds lifeMu
func (e *Engine) push(release func()) {
	e.releases = append(e.releases, release)
}

// unwind runs and clears the release stack LIFO, caller holds lifeMu
func (e *Engine) unwind() {
	for i := len(e.releases) - 1; i >= 0; i-- {
		e.releases[i]()
	}
	e.releases = nil
}

// frameTick is the per-frame callback: fade, step, draw, present
func (e *Engine) frameTick() {
	e.runSafe(func() {
		cv := e.surface.Canvas()
		e.comp.Fade(cv)
		e.system.Tick()
		e.system.Draw(cv, e.comp)
		if p := e.host.Presenter; p != nil {
			p.Present(cv)
		}

		e.statTicks.Add(1)
		e.statParticles.Store(int64(e.system.Len()))

		now := e.host.Clock.Now()
		if !e.lastFrame.IsZero() {
			if dt := now.Sub(e.lastFrame); dt > 0 {
				e.statFPS.Set(float64(time.Second) / float64(dt))
			}
		}
		e.lastFrame = now
	})
}

func (e *Engine) onResize() {
	e.runSafe(e.fitLocked)
}

// fitLocked refits the surface, caller holds the domain
func (e *Engine) fitLocked() {
	w, h, _ := e.surface.Fit()
	e.statWidth.Store(int64(w))
	e.statHeight.Store(int64(h))
}

// View runs fn on the canvas inside the domain, fn must not retain it
func (e *Engine) View(fn func(c *render.Canvas)) {
	e.runSafe(func() { fn(e.surface.Canvas()) })
}

// UpdateDone signals after each completed frame tick
func (e *Engine) UpdateDone() <-chan struct{} {
	return e.updateDone
}

// Size returns the current surface size
func (e *Engine) Size() (w, h int) {
	e.runSafe(func() { w, h = e.surface.Size() })
	return w, h
}

// Len returns the live particle count
func (e *Engine) Len() (n int) {
	e.runSafe(func() { n = e.system.Len() })
	return n
}

// Active reports whether the engine is mounted
func (e *Engine) Active() bool {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	return e.life == lifeActive
}

// burstTarget adapts the engine to BurstTarget, methods run inside the domain
type burstTarget struct {
	e *Engine
}

func (t burstTarget) Size() (int, int) {
	return t.e.surface.Size()
}

func (t burstTarget) SpawnBurst(x, y float64, color render.RGB, count int) {
	t.e.system.SpawnBurst(x, y, color, count)
	t.e.statBursts.Add(1)
	t.e.statParticles.Store(int64(t.e.system.Len()))
}
