package terminal

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/fireworks/countdown"
	"github.com/lixenwraith/fireworks/engine"
	"github.com/lixenwraith/fireworks/particle"
	"github.com/lixenwraith/fireworks/render"
	"github.com/lixenwraith/fireworks/status"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func cellColors(t *testing.T, s tcell.Screen, x, y int) (rune, render.RGB, render.RGB) {
	t.Helper()
	r, _, style, _ := s.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	fr, fgc, fb := fg.RGB()
	br, bgc, bb := bg.RGB()
	return r, render.RGB{R: uint8(fr), G: uint8(fgc), B: uint8(fb)}, render.RGB{R: uint8(br), G: uint8(bgc), B: uint8(bb)}
}

func TestBoundsHalfBlocks(t *testing.T) {
	screen := newSimScreen(t, 40, 12)

	h := New(screen, Options{})
	if w, ph, ok := h.Bounds(); !ok || w != 40 || ph != 24 {
		t.Errorf("Bounds = (%d, %d, %v), want (40, 24, true)", w, ph, ok)
	}

	hud := New(screen, Options{HUD: true})
	if w, ph, ok := hud.Bounds(); !ok || w != 40 || ph != 22 {
		t.Errorf("Bounds with HUD = (%d, %d, %v), want (40, 22, true)", w, ph, ok)
	}
}

func TestBoundsEmptyScreen(t *testing.T) {
	screen := newSimScreen(t, 0, 0)
	h := New(screen, Options{})
	if _, _, ok := h.Bounds(); ok {
		t.Error("zero sized screen reported usable bounds")
	}
	if w, ph := h.Size(); w <= 0 || ph <= 0 {
		t.Errorf("viewport fallback = (%d, %d), want positive", w, ph)
	}
}

func TestPresentWritesHalfBlocks(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	h := New(screen, Options{})

	cv := render.NewCanvas(4, 4)
	cv.Fill(render.RGB{R: 255, G: 0, B: 60}, 1, render.BlendSourceOver)
	h.Present(cv)

	want := render.RGB{R: 255, G: 0, B: 60}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			r, fg, bg := cellColors(t, screen, x, y)
			if r != HalfBlock {
				t.Fatalf("cell (%d, %d) rune = %q, want half block", x, y, r)
			}
			if fg != want || bg != want {
				t.Errorf("cell (%d, %d) fg=%v bg=%v, want %v", x, y, fg, bg, want)
			}
		}
	}
}

func TestPresentSplitsRows(t *testing.T) {
	screen := newSimScreen(t, 3, 1)
	h := New(screen, Options{})

	cv := render.NewCanvas(3, 2)
	// Disc centered on the upper pixel row of column 1, radius small enough to stay there
	cv.FillDisc(1.5, 0.5, 0.5, render.RGB{R: 255, G: 199, B: 68}, 1, render.BlendSourceOver)
	h.Present(cv)

	_, fg, bg := cellColors(t, screen, 1, 0)
	if fg.R < 100 {
		t.Errorf("upper pixel fg = %v, want lit", fg)
	}
	if bg != render.RGBBlack {
		t.Errorf("lower pixel bg = %v, want background", bg)
	}
}

func TestPresentTransparentShowsBackground(t *testing.T) {
	screen := newSimScreen(t, 2, 1)
	bgc := render.RGB{R: 10, G: 20, B: 30}
	h := New(screen, Options{Background: bgc})

	h.Present(render.NewCanvas(2, 2))
	_, fg, bg := cellColors(t, screen, 0, 0)
	if fg != bgc || bg != bgc {
		t.Errorf("empty canvas colors fg=%v bg=%v, want %v", fg, bg, bgc)
	}
}

func TestPresentHUD(t *testing.T) {
	screen := newSimScreen(t, 60, 5)
	reg := status.NewRegistry()
	reg.Labels.Get(status.KeyMode).Store("trail")
	reg.Ints.Get(status.KeyParticles).Store(35)
	h := New(screen, Options{HUD: true, Status: reg})

	h.Present(render.NewCanvas(60, 8))

	var line strings.Builder
	for x := 0; x < 60; x++ {
		r, _, _, _ := screen.GetContent(x, 4)
		line.WriteRune(r)
	}
	if !strings.Contains(line.String(), "particles 35") {
		t.Errorf("HUD row = %q", line.String())
	}
}

func TestAcquire(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	if err := New(screen, Options{}).Acquire(); err != nil {
		t.Errorf("Acquire on a 256 color screen = %v", err)
	}

	mono := &monoScreen{Screen: screen}
	if err := New(mono, Options{}).Acquire(); err == nil {
		t.Error("Acquire accepted a monochrome screen")
	}
}

type monoScreen struct {
	tcell.Screen
}

func (m *monoScreen) Colors() int { return 0 }

func TestPumpQuitKeys(t *testing.T) {
	keys := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"esc", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
		{"q", tcell.KeyRune, 'q'},
	}
	for _, k := range keys {
		t.Run(k.name, func(t *testing.T) {
			screen := newSimScreen(t, 10, 5)
			h := New(screen, Options{})
			screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
			screen.InjectKey(k.key, k.r, tcell.ModNone)

			if err := h.Pump(context.Background()); !errors.Is(err, ErrQuit) {
				t.Errorf("Pump = %v, want ErrQuit", err)
			}
		})
	}
}

func TestPumpCancel(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	h := New(screen, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Pump(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Pump = %v, want nil on cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pump ignored cancellation")
	}
}

func TestPumpResizeNotifies(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	h := New(screen, Options{})

	notified := make(chan struct{}, 1)
	release := h.OnResize(func() { notified <- struct{}{} })
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Pump(ctx)

	screen.SetSize(20, 8)
	if err := screen.PostEvent(tcell.NewEventResize(20, 8)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("resize not delivered")
	}
	if w, ph, _ := h.Bounds(); w != 20 || ph != 16 {
		t.Errorf("Bounds after resize = (%d, %d)", w, ph)
	}
}

func TestRunFramesCoalesces(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	h := New(screen, Options{})
	ticker := engine.NewManualTicker()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.RunFrames(ctx, ticker.Factory()) }()

	for range 3 {
		if !ticker.Fire(time.Second) {
			t.Fatal("frame ticker not consumed")
		}
	}
	// Ticks with nobody reading leave a single pending frame
	if len(h.Frames()) != 1 {
		t.Errorf("pending frames = %d, want 1", len(h.Frames()))
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("RunFrames = %v", err)
	}
	if !ticker.Stopped() {
		t.Error("frame ticker not released")
	}
}

func TestShowCountdown(t *testing.T) {
	screen := newSimScreen(t, 30, 7)
	h := New(screen, Options{})
	h.ShowCountdown(countdown.Remaining{Hours: 1, Minutes: 2, Seconds: 3})

	var row strings.Builder
	for x := 0; x < 30; x++ {
		r, _, _, _ := screen.GetContent(x, 3)
		row.WriteRune(r)
	}
	if got := strings.TrimSpace(row.String()); got != "01h 02m 03s" {
		t.Errorf("countdown row = %q", got)
	}
}

// TestEngineOnTerminal mounts a real engine on a simulation screen and drives frames by hand
func TestEngineOnTerminal(t *testing.T) {
	screen := newSimScreen(t, 40, 10)
	reg := status.NewRegistry()
	h := New(screen, Options{HUD: true, Status: reg})

	ticker := engine.NewManualTicker()
	e, err := engine.New(engine.Config{
		Particle: particle.Config{
			InitialLife:    80,
			VelocitySpread: 0.5,
			Gravity:        0.005,
			Radius:         0.6,
			PeakOpacity:    0.85,
		},
		Mode:              render.ModeTrail,
		FadeAlpha:         0.18,
		BurstInterval:     700 * time.Millisecond,
		ParticlesPerBurst: 35,
		Palette:           []render.RGB{{R: 255, G: 199, B: 68}},
		Label:             "trail",
	}, h.EngineHost(rand.New(rand.NewPCG(1, 2)), ticker.Factory(), nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer e.Deactivate()

	if w, ph := e.Size(); w != 40 || ph != 18 {
		t.Fatalf("surface = (%d, %d), want (40, 18)", w, ph)
	}

	h.frames <- struct{}{}
	select {
	case <-e.UpdateDone():
	case <-time.After(time.Second):
		t.Fatal("frame not processed")
	}

	// The opening burst sits at (20, 6), the upper half of cell row 3
	_, fg, _ := cellColors(t, screen, 20, 3)
	if fg.R == 0 && fg.G == 0 {
		t.Errorf("burst origin cell not lit: %v", fg)
	}
	if reg.Ints.Get(status.KeyTicks).Load() != 1 {
		t.Error("tick metric not updated")
	}

	screen.SetSize(30, 6)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Pump(ctx)
	if err := screen.PostEvent(tcell.NewEventResize(30, 6)); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for {
		if w, ph := e.Size(); w == 30 && ph == 10 {
			break
		}
		if time.Now().After(deadline) {
			w, ph := e.Size()
			t.Fatalf("surface after resize = (%d, %d), want (30, 10)", w, ph)
		}
		time.Sleep(time.Millisecond)
	}
}
