package render

// BlendMode defines how a fill or draw combines with existing canvas content
// Every canvas operation takes the mode as an argument, the canvas holds no blend state
type BlendMode uint8

const (
	BlendSourceOver     BlendMode = iota // Dst = Src*α + Dst*(1-α)
	BlendLighter                         // Dst = clamp(Dst + Src*α), overlapping light brightens
	BlendDestinationOut                  // Dst = Dst*(1-α), source color ignored
)

// DefaultBlend is the mode consumers outside the compositor assume
const DefaultBlend = BlendSourceOver

func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "source-over"
	case BlendLighter:
		return "lighter"
	case BlendDestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// blendPixel composites one premultiplied pixel in place
// sr, sg, sb are straight (non-premultiplied) source channels in [0,1]
func blendPixel(px []float32, sr, sg, sb, a float32, mode BlendMode) {
	switch mode {
	case BlendLighter:
		px[0] = min(px[0]+sr*a, 1)
		px[1] = min(px[1]+sg*a, 1)
		px[2] = min(px[2]+sb*a, 1)
		px[3] = min(px[3]+a, 1)
	case BlendDestinationOut:
		inv := 1 - a
		px[0] *= inv
		px[1] *= inv
		px[2] *= inv
		px[3] *= inv
	default:
		inv := 1 - a
		px[0] = sr*a + px[0]*inv
		px[1] = sg*a + px[1]*inv
		px[2] = sb*a + px[2]*inv
		px[3] = a + px[3]*inv
	}
}
