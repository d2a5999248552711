package parameter

// Shared particle physics
const (
	// GravityPerTick is added to vertical velocity every tick (surface units/tick²)
	GravityPerTick = 0.04

	// VelocitySpread is the width of the symmetric spawn velocity range (surface units/tick)
	VelocitySpread = 4.0
)

// Flash preset: short bright dots overwritten by a translucent black wash
const (
	FlashInitialLife       = 100
	FlashParticlesPerBurst = 50
	FlashParticleRadius    = 2.0
	FlashFadeAlpha         = 0.1
	FlashPeakOpacity       = 1.0
)

// Trail preset: additive glow over an alpha-subtractive fade
const (
	TrailInitialLife       = 80
	TrailParticlesPerBurst = 35
	TrailParticleRadius    = 1.6
	TrailFadeAlpha         = 0.18
	TrailPeakOpacity       = 0.85
)

// Terminal cells are coarse, so spatial constants shrink to keep bursts on screen
const (
	// CellScale multiplies spread, gravity and radius on the terminal host
	CellScale = 0.125

	// MinCellRadius keeps scaled discs at least partially covering a half-block pixel
	MinCellRadius = 0.6
)
