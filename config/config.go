// Package config layers preset values, a YAML file, FIREWORKS_* environment and flags
// into one validated Config
package config

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/fireworks/engine"
	"github.com/lixenwraith/fireworks/parameter"
	"github.com/lixenwraith/fireworks/particle"
	"github.com/lixenwraith/fireworks/render"
)

// Keys, flags use the same names with '-' in place of '_'
const (
	KeyPreset            = "preset"
	KeyMode              = "mode"
	KeyBurstInterval     = "burst_interval"
	KeyParticlesPerBurst = "particles_per_burst"
	KeyInitialLife       = "initial_life"
	KeyVelocitySpread    = "velocity_spread"
	KeyGravity           = "gravity"
	KeyParticleRadius    = "particle_radius"
	KeyPeakOpacity       = "peak_opacity"
	KeyFadeAlpha         = "fade_alpha"
	KeyPalette           = "palette"
	KeyFPS               = "fps"
	KeyHUD               = "hud"
	KeySeed              = "seed"
	KeyAt                = "at"
	KeyDuration          = "duration"
	KeyLogFile           = "log_file"
)

const (
	EnvPrefix = "FIREWORKS"
	FileName  = "fireworks"
)

// Config is the resolved runtime configuration
type Config struct {
	Preset            string
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
	FPS               int
	HUD               bool
	Seed              uint64
	At                time.Time     // Zero launches immediately
	Duration          time.Duration // Zero runs until quit
	LogFile           string
}

// FlagName maps a config key to its flag
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// BindFlags registers every key as a flag
// Preset-owned flags show trail values but only override the preset when set explicitly
func BindFlags(fs *pflag.FlagSet) {
	trail, _ := parameter.LookupPreset(parameter.DefaultPreset)

	fs.String(FlagName(KeyPreset), parameter.DefaultPreset, "named preset: flash or trail")
	fs.String(FlagName(KeyMode), trail.Mode, "compositing mode: flash or trail")
	fs.Duration(FlagName(KeyBurstInterval), trail.BurstInterval, "time between bursts")
	fs.Int(FlagName(KeyParticlesPerBurst), trail.ParticlesPerBurst, "particles per burst")
	fs.Int(FlagName(KeyInitialLife), trail.InitialLife, "particle life in ticks")
	fs.Float64(FlagName(KeyVelocitySpread), trail.VelocitySpread, "spawn velocity spread per tick")
	fs.Float64(FlagName(KeyGravity), trail.Gravity, "gravity added to vy per tick")
	fs.Float64(FlagName(KeyParticleRadius), trail.ParticleRadius, "particle disc radius")
	fs.Float64(FlagName(KeyPeakOpacity), trail.PeakOpacity, "opacity at full life")
	fs.Float64(FlagName(KeyFadeAlpha), trail.FadeAlpha, "alpha of the per-frame fade")
	fs.StringSlice(FlagName(KeyPalette), trail.Palette, "burst colors as #rrggbb or #rrggbbaa")
	fs.Int(FlagName(KeyFPS), parameter.DefaultFPS, "frames per second")
	fs.Bool(FlagName(KeyHUD), false, "show the status line")
	fs.Uint64(FlagName(KeySeed), 0, "random seed, 0 seeds from the clock")
	fs.String(FlagName(KeyAt), "", "RFC3339 launch time, shows a countdown until then")
	fs.Duration(FlagName(KeyDuration), 0, "stop after this long, 0 runs until quit")
	fs.String(FlagName(KeyLogFile), "", "log destination, empty discards")
}

// allKeys lists keys in flag registration order
var allKeys = []string{
	KeyPreset, KeyMode, KeyBurstInterval, KeyParticlesPerBurst, KeyInitialLife,
	KeyVelocitySpread, KeyGravity, KeyParticleRadius, KeyPeakOpacity, KeyFadeAlpha,
	KeyPalette, KeyFPS, KeyHUD, KeySeed, KeyAt, KeyDuration, KeyLogFile,
}

// NewViper prepares a viper instance with env lookup, file search paths and flag bindings
// file overrides the search when non-empty; fs may be nil
func NewViper(fs *pflag.FlagSet, file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Keys outside the preset get plain defaults
	v.SetDefault(KeyPreset, parameter.DefaultPreset)
	v.SetDefault(KeyFPS, parameter.DefaultFPS)
	v.SetDefault(KeyHUD, false)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyAt, "")
	v.SetDefault(KeyDuration, 0)
	v.SetDefault(KeyLogFile, "")

	if fs != nil {
		for _, key := range allKeys {
			if f := fs.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", f.Name)
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return v, nil
}

// Load resolves and validates the configuration
func Load(fs *pflag.FlagSet, file string) (Config, error) {
	v, err := NewViper(fs, file)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// FromViper resolves a prepared viper instance
// Preset-owned keys fall back to the preset when no layer set them
func FromViper(v *viper.Viper) (Config, error) {
	name := strings.ToLower(strings.TrimSpace(v.GetString(KeyPreset)))
	p, ok := parameter.LookupPreset(name)
	if !ok {
		return Config{}, errors.Errorf("unknown preset %q", name)
	}

	c := Config{
		Preset:            p.Name,
		Mode:              p.Mode,
		BurstInterval:     p.BurstInterval,
		ParticlesPerBurst: p.ParticlesPerBurst,
		InitialLife:       p.InitialLife,
		VelocitySpread:    p.VelocitySpread,
		Gravity:           p.Gravity,
		ParticleRadius:    p.ParticleRadius,
		PeakOpacity:       p.PeakOpacity,
		FadeAlpha:         p.FadeAlpha,
		Palette:           p.Palette,
		FPS:               v.GetInt(KeyFPS),
		HUD:               v.GetBool(KeyHUD),
		Seed:              v.GetUint64(KeySeed),
		Duration:          v.GetDuration(KeyDuration),
		LogFile:           v.GetString(KeyLogFile),
	}

	if v.IsSet(KeyMode) {
		c.Mode = v.GetString(KeyMode)
	}
	if v.IsSet(KeyBurstInterval) {
		c.BurstInterval = v.GetDuration(KeyBurstInterval)
	}
	if v.IsSet(KeyParticlesPerBurst) {
		c.ParticlesPerBurst = v.GetInt(KeyParticlesPerBurst)
	}
	if v.IsSet(KeyInitialLife) {
		c.InitialLife = v.GetInt(KeyInitialLife)
	}
	if v.IsSet(KeyVelocitySpread) {
		c.VelocitySpread = v.GetFloat64(KeyVelocitySpread)
	}
	if v.IsSet(KeyGravity) {
		c.Gravity = v.GetFloat64(KeyGravity)
	}
	if v.IsSet(KeyParticleRadius) {
		c.ParticleRadius = v.GetFloat64(KeyParticleRadius)
	}
	if v.IsSet(KeyPeakOpacity) {
		c.PeakOpacity = v.GetFloat64(KeyPeakOpacity)
	}
	if v.IsSet(KeyFadeAlpha) {
		c.FadeAlpha = v.GetFloat64(KeyFadeAlpha)
	}
	if v.IsSet(KeyPalette) {
		c.Palette = splitList(v.GetStringSlice(KeyPalette))
	}

	if at := strings.TrimSpace(v.GetString(KeyAt)); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", KeyAt)
		}
		c.At = t
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// splitList flattens comma separated entries, env values arrive as one string
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks ranges, palette syntax and mode
func (c Config) Validate() error {
	switch {
	case c.ParticlesPerBurst <= 0:
		return errors.Errorf("%s must be positive, got %d", KeyParticlesPerBurst, c.ParticlesPerBurst)
	case c.InitialLife <= 0:
		return errors.Errorf("%s must be positive, got %d", KeyInitialLife, c.InitialLife)
	case c.BurstInterval <= 0:
		return errors.Errorf("%s must be positive, got %v", KeyBurstInterval, c.BurstInterval)
	case c.VelocitySpread < 0:
		return errors.Errorf("%s must not be negative, got %v", KeyVelocitySpread, c.VelocitySpread)
	case c.ParticleRadius <= 0:
		return errors.Errorf("%s must be positive, got %v", KeyParticleRadius, c.ParticleRadius)
	case c.PeakOpacity <= 0 || c.PeakOpacity > 1:
		return errors.Errorf("%s must be in (0, 1], got %v", KeyPeakOpacity, c.PeakOpacity)
	case c.FadeAlpha <= 0 || c.FadeAlpha > 1:
		return errors.Errorf("%s must be in (0, 1], got %v", KeyFadeAlpha, c.FadeAlpha)
	case c.FPS < parameter.MinFPS || c.FPS > parameter.MaxFPS:
		return errors.Errorf("%s must be in [%d, %d], got %d", KeyFPS, parameter.MinFPS, parameter.MaxFPS, c.FPS)
	case c.Duration < 0:
		return errors.Errorf("%s must not be negative, got %v", KeyDuration, c.Duration)
	}
	if _, err := render.ParseMode(c.Mode); err != nil {
		return errors.Wrap(err, KeyMode)
	}
	if _, err := render.ParsePalette(c.Palette); err != nil {
		return errors.Wrap(err, KeyPalette)
	}
	return nil
}

// Scaled shrinks the spatial constants by factor, keeping radius at least minRadius
func (c Config) Scaled(factor, minRadius float64) Config {
	c.VelocitySpread *= factor
	c.Gravity *= factor
	c.ParticleRadius = max(c.ParticleRadius*factor, minRadius)
	c.Palette = append([]string(nil), c.Palette...)
	return c
}

// Engine converts to the engine's tuning
func (c Config) Engine() (engine.Config, error) {
	mode, err := render.ParseMode(c.Mode)
	if err != nil {
		return engine.Config{}, err
	}
	palette, err := render.ParsePalette(c.Palette)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Particle: particle.Config{
			InitialLife:    c.InitialLife,
			VelocitySpread: c.VelocitySpread,
			Gravity:        c.Gravity,
			Radius:         c.ParticleRadius,
			PeakOpacity:    c.PeakOpacity,
		},
		Mode:              mode,
		FadeAlpha:         c.FadeAlpha,
		BurstInterval:     c.BurstInterval,
		ParticlesPerBurst: c.ParticlesPerBurst,
		Palette:           palette,
		Label:             c.Preset,
	}, nil
}

// Rand returns a PCG source seeded from Seed, or from the clock when Seed is zero
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FrameInterval is the period of one frame at FPS
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / parameter.DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}
