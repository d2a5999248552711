package particle

import (
	"math/rand/v2"
	"testing"

	"github.com/lixenwraith/fireworks/render"
)

// seqRand replays a fixed sequence of uniform values
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func trailConfig() Config {
	return Config{
		InitialLife:    80,
		VelocitySpread: 4,
		Gravity:        0.04,
		Radius:         1.6,
		PeakOpacity:    0.85,
	}
}

func TestStepOrder(t *testing.T) {
	p := Particle{X: 10, Y: 10, VX: 1, VY: -1, Life: 5}
	got := Step(p, 0.5)

	// Gravity lands in vy before the position update
	if got.VY != -0.5 {
		t.Errorf("VY = %v, want -0.5", got.VY)
	}
	if got.X != 11 || got.Y != 9.5 {
		t.Errorf("position = (%v, %v), want (11, 9.5)", got.X, got.Y)
	}
	if got.Life != 4 {
		t.Errorf("Life = %d, want 4", got.Life)
	}
	if p.Life != 5 {
		t.Error("Step must not mutate its argument")
	}
}

func TestOpacity(t *testing.T) {
	tests := []struct {
		name          string
		life, initial int
		peak, want    float64
	}{
		{"full life flash", 100, 100, 1.0, 1.0},
		{"half life flash", 50, 100, 1.0, 0.5},
		{"full life trail", 80, 80, 0.85, 0.85},
		{"peak above one clamps", 80, 80, 2.0, 1.0},
		{"expired", 0, 80, 0.85, 0},
		{"negative life", -3, 80, 0.85, 0},
		{"zero initial", 10, 0, 1.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Opacity(tt.life, tt.initial, tt.peak)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Opacity(%d, %d, %v) = %v, want %v", tt.life, tt.initial, tt.peak, got, tt.want)
			}
		})
	}
}

func TestOpacityNonIncreasing(t *testing.T) {
	for _, peak := range []float64{0.85, 1.0, 1.5} {
		prev := Opacity(80, 80, peak)
		for life := 79; life >= 0; life-- {
			o := Opacity(life, 80, peak)
			if o > prev {
				t.Fatalf("peak %v: opacity rose from %v to %v at life %d", peak, prev, o, life)
			}
			prev = o
		}
		if prev != 0 {
			t.Errorf("peak %v: opacity at life 0 = %v, want 0", peak, prev)
		}
	}
}

func TestSpawnBurstAddsExactlyK(t *testing.T) {
	s := NewSystem(trailConfig(), rand.New(rand.NewPCG(1, 2)))
	red := render.RGB{R: 255}
	blue := render.RGB{B: 255}

	s.SpawnBurst(10, 20, red, 35)
	if s.Len() != 35 {
		t.Fatalf("Len = %d, want 35", s.Len())
	}
	s.SpawnBurst(30, 40, blue, 7)
	if s.Len() != 42 {
		t.Fatalf("Len = %d, want 42", s.Len())
	}

	ps := s.Snapshot()
	for i, p := range ps[:35] {
		if p.Color != red || p.X != 10 || p.Y != 20 || p.Life != 80 {
			t.Errorf("particle %d = %+v, want red at (10,20) life 80", i, p)
		}
	}
	for i, p := range ps[35:] {
		if p.Color != blue {
			t.Errorf("particle %d color = %v, want blue", 35+i, p.Color)
		}
	}

	s.SpawnBurst(0, 0, red, 0)
	if s.Len() != 42 {
		t.Error("zero-count burst must not change the live set")
	}
}

func TestSpawnVelocityRange(t *testing.T) {
	s := NewSystem(trailConfig(), &seqRand{vals: []float64{0, 0.999999, 0.5, 0.25}})
	s.SpawnBurst(0, 0, render.RGBWhite, 2)

	ps := s.Snapshot()
	if ps[0].VX != -2 {
		t.Errorf("VX at u=0 = %v, want -2", ps[0].VX)
	}
	if ps[0].VY >= 2 || ps[0].VY < 1.99 {
		t.Errorf("VY at u→1 = %v, want just under 2", ps[0].VY)
	}
	if ps[1].VX != 0 || ps[1].VY != -1 {
		t.Errorf("second particle velocity = (%v, %v), want (0, -1)", ps[1].VX, ps[1].VY)
	}
}

func TestTickLifeAndVelocity(t *testing.T) {
	cfg := trailConfig()
	s := NewSystem(cfg, rand.New(rand.NewPCG(3, 4)))
	s.SpawnBurst(50, 50, render.RGBWhite, 10)

	initial := s.Snapshot()
	for n := 1; n < cfg.InitialLife; n++ {
		s.Tick()
		ps := s.Snapshot()
		if len(ps) != len(initial) {
			t.Fatalf("tick %d: Len = %d, want %d", n, len(ps), len(initial))
		}
		// No removals yet, so order is stable
		for i, p := range ps {
			if p.Life != cfg.InitialLife-n {
				t.Fatalf("tick %d: life = %d, want %d", n, p.Life, cfg.InitialLife-n)
			}
			want := initial[i].VY + float64(n)*cfg.Gravity
			if d := p.VY - want; d > 1e-9 || d < -1e-9 {
				t.Fatalf("tick %d: vy = %v, want %v", n, p.VY, want)
			}
		}
	}
}

func TestTickRemovesExpiredOnly(t *testing.T) {
	cfg := trailConfig()
	cfg.InitialLife = 3
	s := NewSystem(cfg, rand.New(rand.NewPCG(5, 6)))

	s.SpawnBurst(0, 0, render.RGBWhite, 4)
	s.Tick()
	s.SpawnBurst(0, 0, render.RGBBlack, 3)

	s.Tick()
	s.Tick() // first burst reaches life 0
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3 survivors", s.Len())
	}
	for _, p := range s.Snapshot() {
		if p.Color != render.RGBBlack || p.Life != 1 {
			t.Errorf("survivor = %+v, want second burst at life 1", p)
		}
	}

	s.Tick()
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

// TestBurstLifetime runs 35 particles at (100,100) with life 80 to extinction
func TestBurstLifetime(t *testing.T) {
	s := NewSystem(trailConfig(), rand.New(rand.NewPCG(7, 8)))
	s.SpawnBurst(100, 100, render.RGB{R: 255, G: 199, B: 68}, 35)

	for range 79 {
		s.Tick()
	}
	if s.Len() != 35 {
		t.Fatalf("after 79 ticks Len = %d, want 35", s.Len())
	}
	for _, p := range s.Snapshot() {
		if p.Life != 1 {
			t.Fatalf("after 79 ticks life = %d, want 1", p.Life)
		}
	}

	s.Tick()
	if s.Len() != 0 {
		t.Errorf("after 80 ticks Len = %d, want 0", s.Len())
	}
}

func TestDrawUsesCompositorBlend(t *testing.T) {
	cfg := trailConfig()
	cfg.VelocitySpread = 0
	cfg.Radius = 2

	draw := func(comp render.Compositor, bursts int) float32 {
		c := render.NewCanvas(10, 10)
		s := NewSystem(cfg, &seqRand{vals: []float64{0.5}})
		for range bursts {
			s.SpawnBurst(5, 5, render.RGB{R: 100}, 1)
		}
		s.Draw(c, comp)
		return c.At(5, 5).R
	}

	trail := render.NewCompositor(render.ModeTrail, 0.18)
	if one, two := draw(trail, 1), draw(trail, 2); two <= one {
		t.Errorf("lighter: two overlapping dots (%v) should be brighter than one (%v)", two, one)
	}

	flash := render.NewCompositor(render.ModeFlash, 0.1)
	one, two := draw(flash, 1), draw(flash, 2)
	if two < one {
		t.Errorf("source-over: overlap darkened the dot (%v < %v)", two, one)
	}
}

func TestReset(t *testing.T) {
	s := NewSystem(trailConfig(), rand.New(rand.NewPCG(9, 10)))
	s.SpawnBurst(0, 0, render.RGBWhite, 5)
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len after Reset = %d", s.Len())
	}
}
