package render

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"flash", ModeFlash, false},
		{"Trail", ModeTrail, false},
		{" trail ", ModeTrail, false},
		{"glow", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ModeFlash.String() != "flash" || ModeTrail.String() != "trail" || Mode(9).String() != "unknown" {
		t.Error("Mode.String() mismatch")
	}
}

func TestParticleBlend(t *testing.T) {
	if got := NewCompositor(ModeFlash, 0.1).ParticleBlend(); got != BlendSourceOver {
		t.Errorf("flash particle blend = %v, want source-over", got)
	}
	if got := NewCompositor(ModeTrail, 0.18).ParticleBlend(); got != BlendLighter {
		t.Errorf("trail particle blend = %v, want lighter", got)
	}
}

// TestFlashFadeDarkens verifies flash mode paints translucent black over old content
func TestFlashFadeDarkens(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Fill(RGB{250, 250, 250}, 1, BlendSourceOver)

	comp := NewCompositor(ModeFlash, 0.1)
	comp.Fade(c)

	p := c.At(0, 0)
	if p.A < 0.999 {
		t.Errorf("flash fade should keep the pixel opaque, alpha = %v", p.A)
	}
	if got := c.Over(0, 0, RGBWhite); got.R >= 250 {
		t.Errorf("flash fade should shift toward black, got %v", got)
	}
}

// TestTrailFadeErasesAlpha verifies trail mode lowers alpha without recoloring
func TestTrailFadeErasesAlpha(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Fill(RGB{250, 0, 0}, 1, BlendSourceOver)

	comp := NewCompositor(ModeTrail, 0.18)
	for i := 0; i < 10; i++ {
		comp.Fade(c)
	}

	p := c.At(0, 0)
	if p.A >= 0.2 {
		t.Errorf("alpha after 10 trail fades = %v, want < 0.2", p.A)
	}
	// Composited over white, a faded red pixel trends to white, never to black
	if got := c.Over(0, 0, RGBWhite); got.G < 200 {
		t.Errorf("trail fade recolored toward black: %v", got)
	}
}

// TestFadeOnEmptyCanvas verifies the trail fade of an empty canvas stays empty while flash builds up black
func TestFadeOnEmptyCanvas(t *testing.T) {
	trail := NewCanvas(2, 2)
	NewCompositor(ModeTrail, 0.18).Fade(trail)
	if trail.At(1, 1).A != 0 {
		t.Error("trail fade must not add content to an empty canvas")
	}

	flash := NewCanvas(2, 2)
	NewCompositor(ModeFlash, 0.1).Fade(flash)
	if a := flash.At(1, 1).A; !approx(a, 0.1, 1e-6) {
		t.Errorf("flash fade alpha = %v, want 0.1", a)
	}
}
