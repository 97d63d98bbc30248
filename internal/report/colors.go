package report

import (
	"fmt"
	"html/template"
	"math"
)

type rgb struct{ r, g, b float64 }

// colorScale interpolates linearly between evenly spaced anchors
type colorScale []rgb

func hex(v uint32) rgb {
	return rgb{float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255}
}

// ColorBrewer 9-class sequential schemes
var (
	ylGnBu = colorScale{
		hex(0xffffd9), hex(0xedf8b1), hex(0xc7e9b4), hex(0x7fcdbb), hex(0x41b6c4),
		hex(0x1d91c0), hex(0x225ea8), hex(0x253494), hex(0x081d58),
	}
	ylOrRd = colorScale{
		hex(0xffffcc), hex(0xffeda0), hex(0xfed976), hex(0xfeb24c), hex(0xfd8d3c),
		hex(0xfc4e2a), hex(0xe31a1c), hex(0xbd0026), hex(0x800026),
	}
)

// at returns the color at t in [0, 1]; t is clamped
func (s colorScale) at(t float64) rgb {
	if math.IsNaN(t) || t <= 0 {
		return s[0]
	}
	if t >= 1 {
		return s[len(s)-1]
	}
	pos := t * float64(len(s)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := s[i], s[i+1]
	return rgb{
		a.r + (b.r-a.r)*frac,
		a.g + (b.g-a.g)*frac,
		a.b + (b.b-a.b)*frac,
	}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.r), channel(c.g), channel(c.b))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// luminance is the WCAG relative luminance
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

// darkBackground is the luminance under which text switches to light
const darkBackground = 0.408

// gradient maps a value into [lo, hi] on a scale
type gradient struct {
	scale  colorScale
	lo, hi float64
}

// style renders the background and a readable text color for v
func (g gradient) style(v float64) template.CSS {
	t := 0.0
	if g.hi > g.lo {
		t = (v - g.lo) / (g.hi - g.lo)
	}
	bg := g.scale.at(t)
	text := "#000000"
	if bg.luminance() < darkBackground {
		text = "#f1f1f1"
	}
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s", bg.hex(), text))
}

// spanOf returns the min and max of the valid values
func spanOf(values []float64) (lo, hi float64, ok bool) {
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi, len(values) > 0
}
