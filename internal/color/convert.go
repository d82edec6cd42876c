package color

import "math"

// HSB converts c to hue/saturation/brightness.
// Grays (including black and white) have hue 0 and saturation 0.
func (c RGB) HSB() HSB {
	c = c.Clamp()

	max := math.Max(c.R, math.Max(c.G, c.B))
	min := math.Min(c.R, math.Min(c.G, c.B))
	delta := max - min

	out := HSB{B: max}
	if max == 0 || delta == 0 {
		return out
	}
	out.S = delta / max

	var h float64
	switch max {
	case c.R:
		h = (c.G - c.B) / delta
		if h < 0 {
			h += 6
		}
	case c.G:
		h = (c.B-c.R)/delta + 2
	default:
		h = (c.R-c.G)/delta + 4
	}
	out.H = h / 6
	if out.H >= 1 {
		out.H = 0
	}
	return out
}

// RGB converts h to red/green/blue. A hue of 1 is treated as 0.
func (h HSB) RGB() RGB {
	h = h.Clamp()
	if h.S == 0 {
		return RGB{R: h.B, G: h.B, B: h.B}
	}

	sector := math.Mod(h.H, 1) * 6
	i := math.Floor(sector)
	f := sector - i

	v := h.B
	p := v * (1 - h.S)
	q := v * (1 - h.S*f)
	t := v * (1 - h.S*(1-f))

	switch int(i) % 6 {
	case 0:
		return RGB{R: v, G: t, B: p}
	case 1:
		return RGB{R: q, G: v, B: p}
	case 2:
		return RGB{R: p, G: v, B: t}
	case 3:
		return RGB{R: p, G: q, B: v}
	case 4:
		return RGB{R: t, G: p, B: v}
	default:
		return RGB{R: v, G: p, B: q}
	}
}
