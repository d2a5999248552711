// @focus: #render { canvas }
package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle
const kappa = 0.5522847498

// Canvas is a premultiplied RGBA float buffer that keeps content between frames
// Channels are in [0,1]; a fresh or resized canvas is fully transparent
type Canvas struct {
	pix    []float32
	width  int
	height int

	// Scratch state for disc coverage, reused across draws
	raster *vector.Rasterizer
	mask   []uint8
}

// Pixel is one premultiplied canvas sample
type Pixel struct {
	R, G, B, A float32
}

// NewCanvas creates a transparent canvas with the specified dimensions
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{raster: vector.NewRasterizer(1, 1)}
	c.Resize(width, height)
	return c
}

// Resize adjusts dimensions and clears content, reallocates only if capacity insufficient
// Negative dimensions are treated as zero
func (c *Canvas) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)

	size := width * height * 4
	if cap(c.pix) < size {
		c.pix = make([]float32, size)
	} else {
		c.pix = c.pix[:size]
	}
	c.width = width
	c.height = height
	c.Clear()
}

// Clear resets every pixel to transparent
func (c *Canvas) Clear() {
	clear(c.pix)
}

// Size returns canvas dimensions
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// inBounds returns true if in canvas bounds
func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// At returns the premultiplied pixel, transparent when out of bounds
func (c *Canvas) At(x, y int) Pixel {
	if !c.inBounds(x, y) {
		return Pixel{}
	}
	i := (y*c.width + x) * 4
	return Pixel{R: c.pix[i], G: c.pix[i+1], B: c.pix[i+2], A: c.pix[i+3]}
}

// Fill composites a uniform color over the whole canvas
func (c *Canvas) Fill(col RGB, alpha float64, mode BlendMode) {
	if alpha <= 0 || len(c.pix) == 0 {
		return
	}
	a := float32(min(alpha, 1))
	sr, sg, sb := channels(col)
	for i := 0; i < len(c.pix); i += 4 {
		blendPixel(c.pix[i:i+4], sr, sg, sb, a, mode)
	}
}

// FillDisc composites an anti-aliased filled circle centred at (cx, cy)
// Edge pixels receive alpha scaled by their coverage
func (c *Canvas) FillDisc(cx, cy, radius float64, col RGB, alpha float64, mode BlendMode) {
	if alpha <= 0 || radius <= 0 || len(c.pix) == 0 {
		return
	}
	if math.IsNaN(cx) || math.IsNaN(cy) {
		return
	}

	x0 := int(math.Floor(cx - radius))
	y0 := int(math.Floor(cy - radius))
	x1 := int(math.Ceil(cx + radius))
	y1 := int(math.Ceil(cy + radius))

	// Reject discs entirely off canvas before rasterizing
	if x1 <= 0 || y1 <= 0 || x0 >= c.width || y0 >= c.height {
		return
	}

	w, h := x1-x0, y1-y0
	mask := c.coverage(cx-float64(x0), cy-float64(y0), radius, w, h)

	a := float32(min(alpha, 1))
	sr, sg, sb := channels(col)
	for my := 0; my < h; my++ {
		y := y0 + my
		if y < 0 || y >= c.height {
			continue
		}
		for mx := 0; mx < w; mx++ {
			x := x0 + mx
			if x < 0 || x >= c.width {
				continue
			}
			cov := mask[my*w+mx]
			if cov == 0 {
				continue
			}
			i := (y*c.width + x) * 4
			blendPixel(c.pix[i:i+4], sr, sg, sb, a*float32(cov)/255, mode)
		}
	}
}

// coverage rasterizes a circle of radius r at local (ox, oy) into a w*h alpha mask
func (c *Canvas) coverage(ox, oy, r float64, w, h int) []uint8 {
	if cap(c.mask) < w*h {
		c.mask = make([]uint8, w*h)
	}
	c.mask = c.mask[:w*h]
	dst := &image.Alpha{Pix: c.mask, Stride: w, Rect: image.Rect(0, 0, w, h)}

	z := c.raster
	z.Reset(w, h)
	z.DrawOp = draw.Src

	x, y, k := float32(ox), float32(oy), float32(r)
	d := float32(r * kappa)
	z.MoveTo(x+k, y)
	z.CubeTo(x+k, y+d, x+d, y+k, x, y+k)
	z.CubeTo(x-d, y+k, x-k, y+d, x-k, y)
	z.CubeTo(x-k, y-d, x-d, y-k, x, y-k)
	z.CubeTo(x+d, y-k, x+k, y-d, x+k, y)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return c.mask
}

// Over composites the pixel onto an opaque background color
func (c *Canvas) Over(x, y int, bg RGB) RGB {
	p := c.At(x, y)
	if p.A <= 0 {
		return bg
	}
	inv := 1 - p.A
	return RGB{
		R: clamp((float64(p.R)+float64(bg.R)/255*float64(inv))*255 + 0.5),
		G: clamp((float64(p.G)+float64(bg.G)/255*float64(inv))*255 + 0.5),
		B: clamp((float64(p.B)+float64(bg.B)/255*float64(inv))*255 + 0.5),
	}
}

// WriteRGBA exports 8-bit premultiplied RGBA into dst, which must hold 4*w*h bytes
// Returns false if dst is too small
func (c *Canvas) WriteRGBA(dst []byte) bool {
	if len(dst) < len(c.pix) {
		return false
	}
	for i, v := range c.pix {
		dst[i] = clamp(float64(v)*255 + 0.5)
	}
	return true
}

// channels converts 8-bit color to straight float channels
func channels(col RGB) (float32, float32, float32) {
	return float32(col.R) / 255, float32(col.G) / 255, float32(col.B) / 255
}
