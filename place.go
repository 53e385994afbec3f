package labelplace

import (
	"context"
)

// Stats summarises a search.
type Stats struct {
	Iterations  int
	Stages      int
	Accepted    int
	Rejected    int
	Deactivated int

	// InitialOverlaps counts overlapping labels with all labels centered on their anchor, StartOverlaps after the random initial placement and FinalOverlaps when the search ended.
	InitialOverlaps int
	StartOverlaps   int
	FinalOverlaps   int

	Energy      float64
	Temperature float64
}

// Result is the outcome of Place.
type Result struct {
	Solution   *Solution
	Placements []Placement
	Stats      Stats
}

// Unplaced returns the placements of the labels that could not be placed.
func (r *Result) Unplaced() []Placement {
	var unplaced []Placement
	for _, placement := range r.Placements {
		if !placement.Placed {
			unplaced = append(unplaced, placement)
		}
	}
	return unplaced
}

// Place positions the labels of the given features. Labels that could not be placed without overlap are marked as not placed, which is not an error.
func Place(features []Feature, opts *Options) (*Result, error) {
	return PlaceContext(context.Background(), features, opts)
}

// PlaceContext is like Place but stops early when the context is done, in which case the partial result is returned together with the context's error.
func PlaceContext(ctx context.Context, features []Feature, opts *Options) (*Result, error) {
	sol, err := NewSolution(features)
	if err != nil {
		return nil, err
	}
	p, err := NewPlacer(sol, opts)
	if err != nil {
		return nil, err
	}

	err = p.Run(ctx)
	return &Result{
		Solution:   sol,
		Placements: sol.Placements(),
		Stats:      p.Stats(),
	}, err
}
