package render

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the frame compositing strategy
type Mode uint8

const (
	// ModeFlash overwrites the prior frame with translucent black, particles drawn source-over
	ModeFlash Mode = iota
	// ModeTrail erases a fraction of prior alpha, particles drawn additively
	ModeTrail
)

func (m Mode) String() string {
	switch m {
	case ModeFlash:
		return "flash"
	case ModeTrail:
		return "trail"
	default:
		return "unknown"
	}
}

// ParseMode maps a config string to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flash":
		return ModeFlash, nil
	case "trail":
		return ModeTrail, nil
	default:
		return 0, errors.Errorf("unknown compositing mode %q (want flash or trail)", s)
	}
}

// Compositor decides how a new frame blends with the remnants of the previous one
// It is a value type with no hidden state; both steps pass their blend mode explicitly
type Compositor struct {
	Mode      Mode
	FadeAlpha float64
}

// NewCompositor creates a compositor for the given mode and fade strength
func NewCompositor(mode Mode, fadeAlpha float64) Compositor {
	return Compositor{Mode: mode, FadeAlpha: fadeAlpha}
}

// Fade runs the pre-draw step over the whole canvas
func (c Compositor) Fade(cv *Canvas) {
	switch c.Mode {
	case ModeTrail:
		// Alpha-subtractive: old pixels fade out without shifting toward black
		cv.Fill(RGBBlack, c.FadeAlpha, BlendDestinationOut)
	default:
		cv.Fill(RGBBlack, c.FadeAlpha, DefaultBlend)
	}
}

// ParticleBlend returns the blend mode for particle draws
func (c Compositor) ParticleBlend() BlendMode {
	if c.Mode == ModeTrail {
		return BlendLighter
	}
	return DefaultBlend
}
