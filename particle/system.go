package particle

import "github.com/lixenwraith/fireworks/render"

// Rand is the uniform random source used for spawn velocities
// *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	Float64() float64
}

// Config holds per-particle tuning
type Config struct {
	InitialLife    int     // Ticks a particle lives
	VelocitySpread float64 // Velocity components drawn from [-spread/2, spread/2)
	Gravity        float64 // Added to vy every tick
	Radius         float64 // Drawn disc radius, independent of life
	PeakOpacity    float64 // Opacity at full life before clamping
}

// System owns the live particles and is their only mutator
// Not safe for concurrent use; callers serialize access
type System struct {
	cfg       Config
	rng       Rand
	particles []Particle
}

// NewSystem creates an empty particle system
func NewSystem(cfg Config, rng Rand) *System {
	return &System{
		cfg:       cfg,
		rng:       rng,
		particles: make([]Particle, 0, 256),
	}
}

// SpawnBurst appends count particles at (x, y) sharing one color
func (s *System) SpawnBurst(x, y float64, color render.RGB, count int) {
	for range count {
		s.particles = append(s.particles, Particle{
			X:     x,
			Y:     y,
			VX:    (s.rng.Float64() - 0.5) * s.cfg.VelocitySpread,
			VY:    (s.rng.Float64() - 0.5) * s.cfg.VelocitySpread,
			Life:  s.cfg.InitialLife,
			Color: color,
		})
	}
}

// Tick steps every particle then sweeps out the expired ones
// Swap-remove: order of survivors is not preserved
func (s *System) Tick() {
	for i := range s.particles {
		s.particles[i] = Step(s.particles[i], s.cfg.Gravity)
	}

	for i := 0; i < len(s.particles); i++ {
		if s.particles[i].Alive() {
			continue
		}
		last := len(s.particles) - 1
		s.particles[i] = s.particles[last]
		s.particles = s.particles[:last]
		i--
	}
}

// Draw renders every live particle as a disc using the compositor's particle blend
func (s *System) Draw(c *render.Canvas, comp render.Compositor) {
	mode := comp.ParticleBlend()
	for _, p := range s.particles {
		alpha := Opacity(p.Life, s.cfg.InitialLife, s.cfg.PeakOpacity)
		if alpha <= 0 {
			continue
		}
		c.FillDisc(p.X, p.Y, s.cfg.Radius, p.Color, alpha, mode)
	}
}

// Len returns the live particle count
func (s *System) Len() int {
	return len(s.particles)
}

// Snapshot returns a copy of the live particles
func (s *System) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Reset drops every particle, keeping capacity
func (s *System) Reset() {
	s.particles = s.particles[:0]
}
