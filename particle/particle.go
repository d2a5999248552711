// Package particle holds the fireworks particle record, its pure physics step and the
// system that owns the live collection
package particle

import "github.com/lixenwraith/fireworks/render"

// Particle is a short-lived light point
// Positions and velocities are in surface units and surface units per tick
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   int // Remaining ticks, removed once <= 0
	Color  render.RGB
}

// Alive reports whether the particle survives the expiry sweep
func (p Particle) Alive() bool {
	return p.Life > 0
}

// Step advances one tick: gravity into vy, velocity into position, one life spent
func Step(p Particle, gravity float64) Particle {
	p.VY += gravity
	p.X += p.VX
	p.Y += p.VY
	p.Life--
	return p
}

// Opacity is the linear fade law: peak * life / initialLife, clamped to [0, 1]
func Opacity(life, initialLife int, peak float64) float64 {
	if life <= 0 || initialLife <= 0 {
		return 0
	}
	o := peak * float64(life) / float64(initialLife)
	if o > 1 {
		return 1
	}
	if o < 0 {
		return 0
	}
	return o
}
