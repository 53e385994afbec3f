// Package labelplace positions point labels so that they do not overlap, using a force model and simulated annealing.
//
// Every feature is an anchor point with a label footprint. Its label can be shifted around the anchor as long as the anchor stays within (or on the border of) the label rectangle; that shift is the label's offset. The annealer moves offsets to minimise the total force between neighbouring labels and gives up on labels that cannot be placed.
package labelplace

import (
	"errors"
	"fmt"
	"math"

	"github.com/tdewolff/canvas"
)

// ErrInvalidFeature is wrapped by all feature validation errors.
var ErrInvalidFeature = errors.New("invalid feature")

// InvalidFeatureError reports why a feature was rejected.
type InvalidFeatureError struct {
	Index  int
	Reason string
}

func (err *InvalidFeatureError) Error() string {
	return fmt.Sprintf("feature %d: %s", err.Index, err.Reason)
}

func (err *InvalidFeatureError) Unwrap() error {
	return ErrInvalidFeature
}

// Feature is an anchor point with the size of its label. Text and Index are used for identification only.
type Feature struct {
	Pos   canvas.Point
	W, H  float64
	Text  string
	Index int
}

// Validate returns an error for NaN or infinite coordinates and for negative or non-finite label sizes or areas.
func (f Feature) Validate() error {
	if !finite(f.Pos.X) || !finite(f.Pos.Y) {
		return &InvalidFeatureError{f.Index, fmt.Sprintf("position %v is not finite", f.Pos)}
	} else if !finite(f.W) || !finite(f.H) {
		return &InvalidFeatureError{f.Index, fmt.Sprintf("size %gx%g is not finite", f.W, f.H)}
	} else if f.W < 0.0 || f.H < 0.0 {
		return &InvalidFeatureError{f.Index, fmt.Sprintf("size %gx%g is negative", f.W, f.H)}
	} else if !finite(f.W * f.H) {
		return &InvalidFeatureError{f.Index, fmt.Sprintf("area of size %gx%g is not finite", f.W, f.H)}
	}
	return nil
}

func (f Feature) String() string {
	if f.Text == "" {
		return fmt.Sprintf("#%d%v", f.Index, f.Pos)
	}
	return fmt.Sprintf("#%d%v %q", f.Index, f.Pos, f.Text)
}

// canOverlap is true if the labels of a and b overlap for some pair of offsets. It may give false positives but never false negatives.
func canOverlap(a, b Feature) bool {
	return math.Abs(a.Pos.X-b.Pos.X) <= a.W+b.W && math.Abs(a.Pos.Y-b.Pos.Y) <= a.H+b.H
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
