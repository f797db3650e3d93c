package topofile

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/nettopo/topokit/pkg/topo"
)

// Node colors are derived from a fixed hue per kind rather than a
// hand-picked table, so new kinds only need a hue.
var kindHues = map[topo.Kind]float64{
	topo.KindRouter:   210, // blue
	topo.KindSwitch:   145, // green
	topo.KindHost:     35,  // orange
	topo.KindExternal: 280, // purple
}

func kindHue(k topo.Kind) float64 {
	if h, ok := kindHues[k]; ok {
		return h
	}
	return 210
}

// KindFill returns the pale fill color for a node kind.
func KindFill(k topo.Kind) colorful.Color {
	return colorful.Hsv(kindHue(k), 0.12, 0.98)
}

// KindBorder returns the border color for a node kind.
func KindBorder(k topo.Kind) colorful.Color {
	return colorful.Hsv(kindHue(k), 0.65, 0.55)
}

// fillRGBA and borderRGBA adapt the palette for the PNG renderer.
func fillRGBA(k topo.Kind) color.RGBA {
	r, g, b := KindFill(k).RGB255()
	return color.RGBA{r, g, b, 255}
}

func borderRGBA(k topo.Kind) color.RGBA {
	r, g, b := KindBorder(k).RGB255()
	return color.RGBA{r, g, b, 255}
}
