package topofile

import (
	"math"
	"testing"

	"github.com/nettopo/topokit/pkg/topo"
)

func TestEstimateLabelRect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64 // width
	}{
		{"Empty text gets floor width", "", 24},
		{"Single char gets floor width", "a", 24},
		{"Short name", "eth0", 40},
		{"Long name", "GigabitEthernet0/0/0", 152},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rect := EstimateLabelRect(100, 200, tc.text)
			if rect.W != tc.expected {
				t.Errorf("Expected width %.1f, got %.1f", tc.expected, rect.W)
			}
			if rect.H != 16 {
				t.Errorf("Expected height 16, got %.1f", rect.H)
			}
			if rect.X != 100 || rect.Y != 200 {
				t.Errorf("Rect not centered at (100,200): (%.1f,%.1f)", rect.X, rect.Y)
			}
		})
	}
}

func TestNodeRect(t *testing.T) {
	device := topo.Node{ID: "r1", Kind: topo.KindRouter, X: 50, Y: 60}
	r := NodeRect(device)
	if r.W != 48 || r.H != 48 {
		t.Errorf("Device footprint expected 48x48, got %.0fx%.0f", r.W, r.H)
	}

	external := topo.Node{ID: "net", Kind: topo.KindExternal, X: 50, Y: 60}
	r = NodeRect(external)
	if r.W != 56 || r.H != 40 {
		t.Errorf("External footprint expected 56x40, got %.0fx%.0f", r.W, r.H)
	}

	if r.X != 50 || r.Y != 60 {
		t.Errorf("Footprint not centered on node position: (%.0f,%.0f)", r.X, r.Y)
	}
}

func TestOverlapArea(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected float64
	}{
		{
			name:     "No overlap - horizontally separated",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{20, 0, 10, 10},
			expected: 0,
		},
		{
			name:     "No overlap - vertically separated",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{0, 20, 10, 10},
			expected: 0,
		},
		{
			name:     "Full overlap (same rect)",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{0, 0, 10, 10},
			expected: 100,
		},
		{
			name:     "Partial overlap",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{5, 5, 10, 10},
			expected: 25,
		},
		{
			name:     "Touching edges",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{10, 0, 10, 10},
			expected: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := OverlapArea(tc.a, tc.b)
			if math.Abs(result-tc.expected) > 0.01 {
				t.Errorf("Expected overlap %.2f, got %.2f", tc.expected, result)
			}

			if got := Intersects(tc.a, tc.b); got != (tc.expected > 0) {
				t.Errorf("Intersects = %v, expected %v", got, tc.expected > 0)
			}
		})
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a := Point{0, 0}
	b := Point{10, 0}

	tests := []struct {
		name     string
		p        Point
		expected float64
	}{
		{"On segment", Point{5, 0}, 0},
		{"Above middle", Point{5, 3}, 3},
		{"Beyond end clamps to endpoint", Point{15, 0}, 5},
		{"Before start clamps to endpoint", Point{-3, 4}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := PointSegmentDistance(tc.p, a, b)
			if math.Abs(result-tc.expected) > 0.001 {
				t.Errorf("Expected %.3f, got %.3f", tc.expected, result)
			}
		})
	}
}

func TestPointSegmentDistanceDegenerate(t *testing.T) {
	// Zero-length segment degenerates to point distance.
	a := Point{3, 4}
	result := PointSegmentDistance(Point{0, 0}, a, a)
	if math.Abs(result-5) > 0.001 {
		t.Errorf("Expected 5, got %.3f", result)
	}
}
