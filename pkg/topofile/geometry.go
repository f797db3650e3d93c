// Geometric utilities for topology diagram rendering.
// Provides the rectangle and distance math used by label placement.

package topofile

import (
	"math"

	"github.com/nettopo/topokit/pkg/topo"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y float64 // Center
	W, H float64 // Full width and height
}

// EstimateLabelRect returns the bounding box of an interface label drawn
// centered at (x, y). Width tracks text length with a floor of 24; height
// is fixed.
func EstimateLabelRect(x, y float64, text string) Rect {
	w := float64(len(text))*7 + 12
	if w < 24 {
		w = 24
	}
	return Rect{X: x, Y: y, W: w, H: 16}
}

// NodeRect returns the footprint rectangle of a node's on-screen icon.
// External networks draw as a wider, flatter cloud than device icons.
func NodeRect(n topo.Node) Rect {
	if n.Kind.IsExternal() {
		return Rect{X: n.X, Y: n.Y, W: 56, H: 40}
	}
	return Rect{X: n.X, Y: n.Y, W: 48, H: 48}
}

// Intersects reports whether two rectangles overlap.
func Intersects(a, b Rect) bool {
	return OverlapArea(a, b) > 0
}

// OverlapArea returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func OverlapArea(a, b Rect) float64 {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)

	overlapX := (a.W+b.W)/2 - dx
	overlapY := (a.H+b.H)/2 - dy

	if overlapX <= 0 || overlapY <= 0 {
		return 0
	}

	return overlapX * overlapY
}

// PointSegmentDistance returns the distance from p to the finite segment
// a-b. Degenerates to plain point distance when the segment has zero
// length.
func PointSegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	// Project p onto the segment, clamped to the endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx := a.X + t*dx
	cy := a.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}
