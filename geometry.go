package labelplace

import (
	"math"

	"github.com/tdewolff/canvas"
)

// overlapsH is true if the horizontal intervals of a and b overlap, touching edges excluded.
func overlapsH(a, b canvas.Rect) bool {
	return a.X0 < b.X1 && b.X0 < a.X1
}

// overlapsV is true if the vertical intervals of a and b overlap, touching edges excluded.
func overlapsV(a, b canvas.Rect) bool {
	return a.Y0 < b.Y1 && b.Y0 < a.Y1
}

// intersects is true if a and b overlap on both axes.
func intersects(a, b canvas.Rect) bool {
	return overlapsH(a, b) && overlapsV(a, b)
}

// distance returns the gap between a and b, or -1 if they intersect.
func distance(a, b canvas.Rect) float64 {
	h, v := overlapsH(a, b), overlapsV(a, b)
	if h && v {
		return -1.0
	} else if h {
		return math.Max(b.Y0-a.Y1, a.Y0-b.Y1)
	} else if v {
		return math.Max(b.X0-a.X1, a.X0-b.X1)
	}

	// nearest corners
	dx := math.Max(b.X0-a.X1, a.X0-b.X1)
	dy := math.Max(b.Y0-a.Y1, a.Y0-b.Y1)
	return math.Hypot(dx, dy)
}

// overlapArea returns the area of the intersection of a and b.
func overlapArea(a, b canvas.Rect) float64 {
	w := math.Min(a.X1, b.X1) - math.Max(a.X0, b.X0)
	h := math.Min(a.Y1, b.Y1) - math.Max(a.Y0, b.Y0)
	if w <= 0.0 || h <= 0.0 {
		return 0.0
	}
	return w * h
}

func center(r canvas.Rect) canvas.Point {
	return canvas.Point{X: (r.X0 + r.X1) / 2.0, Y: (r.Y0 + r.Y1) / 2.0}
}
