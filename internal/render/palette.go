package render

import (
	"image/color"
	"math"
)

// Elevation band thresholds, in solver units.
const (
	SeaLevel    = 0.05
	HillLevel   = 5.0
	MountLevel  = 25.0
	maxForColor = 60.0
)

// Band classifies an elevation for display.
type Band uint8

const (
	NoData Band = iota
	Ocean
	Plains
	Hills
	Mountains
)

func (b Band) String() string {
	switch b {
	case Ocean:
		return "ocean"
	case Plains:
		return "plains"
	case Hills:
		return "hills"
	case Mountains:
		return "mountains"
	}
	return "none"
}

// BandOf maps an elevation to its band. NaN is NoData.
func BandOf(e float64) Band {
	switch {
	case math.IsNaN(e):
		return NoData
	case e < SeaLevel:
		return Ocean
	case e < HillLevel:
		return Plains
	case e < MountLevel:
		return Hills
	}
	return Mountains
}

// Palette colours elevations. Each band blends between two colours.
type Palette struct {
	NoData    color.RGBA
	Ocean     color.RGBA
	Shore     color.RGBA
	Plains    [2]color.RGBA
	Hills     [2]color.RGBA
	Mountains [2]color.RGBA
}

// DefaultPalette is the preview palette.
var DefaultPalette = Palette{
	NoData:    color.RGBA{A: 0},
	Ocean:     color.RGBA{R: 40, G: 60, B: 120, A: 255},
	Shore:     color.RGBA{R: 70, G: 105, B: 160, A: 255},
	Plains:    [2]color.RGBA{{R: 96, G: 150, B: 88, A: 255}, {R: 150, G: 170, B: 96, A: 255}},
	Hills:     [2]color.RGBA{{R: 150, G: 170, B: 96, A: 255}, {R: 190, G: 160, B: 80, A: 255}},
	Mountains: [2]color.RGBA{{R: 160, G: 130, B: 100, A: 255}, {R: 240, G: 235, B: 215, A: 255}},
}

// Color returns the colour of elevation e.
func (p Palette) Color(e float64) color.RGBA {
	switch BandOf(e) {
	case NoData:
		return p.NoData
	case Ocean:
		return lerpRGBA(p.Ocean, p.Shore, clamp01(e/SeaLevel))
	case Plains:
		return lerpRGBA(p.Plains[0], p.Plains[1], (e-SeaLevel)/(HillLevel-SeaLevel))
	case Hills:
		return lerpRGBA(p.Hills[0], p.Hills[1], (e-HillLevel)/(MountLevel-HillLevel))
	}
	return lerpRGBA(p.Mountains[0], p.Mountains[1], (e-MountLevel)/(maxForColor-MountLevel))
}

// Ramp maps t in [0, 1] onto a blue-to-white ramp for scalar overlays.
func Ramp(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 150}},
		{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 185}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 215}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			return lerpRGBA(prev.col, curr.col, (t-prev.t)/(curr.t-prev.t))
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
