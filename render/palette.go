package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ParseColor reads a CSS-style hex color: #rgb, #rrggbb or #rrggbbaa
// A trailing alpha byte is accepted and dropped, particles carry opacity separately
func ParseColor(s string) (RGB, error) {
	hex := strings.TrimSpace(s)
	if len(hex) == 9 && strings.HasPrefix(hex, "#") {
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, errors.Wrapf(err, "parse color %q", s)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ParsePalette parses every entry, failing on the first bad one
func ParsePalette(entries []string) ([]RGB, error) {
	if len(entries) == 0 {
		return nil, errors.New("palette is empty")
	}

	palette := make([]RGB, 0, len(entries))
	for i, e := range entries {
		c, err := ParseColor(e)
		if err != nil {
			return nil, errors.Wrapf(err, "palette entry %d", i)
		}
		palette = append(palette, c)
	}
	return palette, nil
}
