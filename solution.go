package labelplace

import (
	"fmt"

	"github.com/tdewolff/canvas"
)

// Solution holds the labels of a feature set, indexed in the order of the features.
type Solution struct {
	Labels []Label
}

// NewSolution validates the features and builds a label for each, centered on its anchor, together with the neighbor graph.
func NewSolution(features []Feature) (*Solution, error) {
	labels := make([]Label, len(features))
	for i, f := range features {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		labels[i] = Label{
			Feature: f,
			Offset:  canvas.Point{X: f.W / 2.0, Y: f.H / 2.0},
			Active:  true,
			index:   i,
		}
	}

	// O(n^2), label counts are small
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if canOverlap(labels[i].Feature, labels[j].Feature) {
				labels[i].Neighbors = append(labels[i].Neighbors, j)
				labels[j].Neighbors = append(labels[j].Neighbors, i)
			}
		}
	}
	return &Solution{Labels: labels}, nil
}

// Len returns the number of labels.
func (s *Solution) Len() int {
	return len(s.Labels)
}

// overlapping returns the number of active neighbors whose rectangle intersects label i.
func (s *Solution) overlapping(i int) int {
	l := &s.Labels[i]
	if !l.Active {
		return 0
	}

	n := 0
	r := l.Rect()
	for _, j := range l.Neighbors {
		if s.Labels[j].Active && intersects(r, s.Labels[j].Rect()) {
			n++
		}
	}
	return n
}

// Overlaps returns the number of active labels that intersect at least one other active label.
func (s *Solution) Overlaps() int {
	n := 0
	for i := range s.Labels {
		if 0 < s.overlapping(i) {
			n++
		}
	}
	return n
}

// CheckNeighbors verifies that the neighbor relation is symmetric and free of self-references.
func (s *Solution) CheckNeighbors() error {
	for i := range s.Labels {
		for _, j := range s.Labels[i].Neighbors {
			if j == i {
				return fmt.Errorf("label %d is its own neighbor", i)
			} else if j < 0 || len(s.Labels) <= j {
				return fmt.Errorf("label %d has out of range neighbor %d", i, j)
			} else if slot(s.Labels[j].Neighbors, i) < 0 {
				return fmt.Errorf("label %d lists neighbor %d but not the other way around", i, j)
			}
		}
	}
	return nil
}

// Placement is the outcome for one feature. Rect is only meaningful when Placed is true.
type Placement struct {
	Feature
	Placed bool
	Offset canvas.Point
	Rect   canvas.Rect
}

// Placements returns the outcome for each feature, in input order.
func (s *Solution) Placements() []Placement {
	placements := make([]Placement, len(s.Labels))
	for i := range s.Labels {
		l := &s.Labels[i]
		placements[i] = Placement{
			Feature: l.Feature,
			Placed:  l.Active,
		}
		if l.Active {
			placements[i].Offset = l.Offset
			placements[i].Rect = l.Rect()
		}
	}
	return placements
}

// slot returns the position of j in neighbors, or -1.
func slot(neighbors []int, j int) int {
	for k, n := range neighbors {
		if n == j {
			return k
		}
	}
	return -1
}
