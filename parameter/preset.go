package parameter

import "time"

// Preset is a named bundle of tuning values
// Palettes are hex strings, an 8-digit form carries alpha which is ignored
type Preset struct {
	Name              string
	Mode              string
	BurstInterval     time.Duration
	ParticlesPerBurst int
	InitialLife       int
	VelocitySpread    float64
	Gravity           float64
	ParticleRadius    float64
	PeakOpacity       float64
	FadeAlpha         float64
	Palette           []string
}

const (
	PresetFlash = "flash"
	PresetTrail = "trail"

	// DefaultPreset is the trail look
	DefaultPreset = PresetTrail
)

var (
	FlashPalette = []string{"#ff6f91", "#ffd166", "#7bdff2", "#ff9a9e", "#ffd97d"}
	TrailPalette = []string{"#ff003cff", "#ffc744ff", "#00d5ffff", "#ff9a9e", "#62ff00ff", "#ff8800ff"}
)

// Presets returns fresh copies of the built-in presets in display order
func Presets() []Preset {
	return []Preset{
		{
			Name:              PresetFlash,
			Mode:              "flash",
			BurstInterval:     FlashBurstInterval,
			ParticlesPerBurst: FlashParticlesPerBurst,
			InitialLife:       FlashInitialLife,
			VelocitySpread:    VelocitySpread,
			Gravity:           GravityPerTick,
			ParticleRadius:    FlashParticleRadius,
			PeakOpacity:       FlashPeakOpacity,
			FadeAlpha:         FlashFadeAlpha,
			Palette:           append([]string(nil), FlashPalette...),
		},
		{
			Name:              PresetTrail,
			Mode:              "trail",
			BurstInterval:     TrailBurstInterval,
			ParticlesPerBurst: TrailParticlesPerBurst,
			InitialLife:       TrailInitialLife,
			VelocitySpread:    VelocitySpread,
			Gravity:           GravityPerTick,
			ParticleRadius:    TrailParticleRadius,
			PeakOpacity:       TrailPeakOpacity,
			FadeAlpha:         TrailFadeAlpha,
			Palette:           append([]string(nil), TrailPalette...),
		},
	}
}

// LookupPreset finds a preset by name
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
