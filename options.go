package labelplace

import (
	"fmt"
	"log/slog"

	"github.com/tdewolff/canvas"
)

// DefaultSeed seeds the random generator when Options.Seed is zero.
const DefaultSeed = 0x5eed

// Options configures the annealer. Zero values are replaced by their defaults, pass nil to use all defaults.
type Options struct {
	// Seed for the pseudo-random generator, equal seeds give equal results. Zero selects DefaultSeed, so a seed of zero itself cannot be used. Default: DefaultSeed.
	Seed uint64

	// RepulsiveFactor scales the inverse-square repulsion between labels. Default: 1.
	RepulsiveFactor float64

	// OverlapFactor scales the overlap area penalty of intersecting labels. Default: 10.
	OverlapFactor float64

	// ForceEps is the minimum distance used for the repulsion, it also fixes the constant overlap penalty 3/ForceEps^2. Default: 0.5.
	ForceEps float64

	// MinForce is the force below which a label is considered balanced, and the energy change below which a move is insignificant. Default: 0.5.
	MinForce float64

	// CoolingStages is the number of stages after which the temperature drops below one. Default: 15.
	CoolingStages uint32

	// MovesPerStageMultiplier times the number of labels is the number of moves in the first stage. Default: 30.
	MovesPerStageMultiplier uint32

	// MaxIterations stops the search after that many moves, zero means no limit.
	MaxIterations int

	// Check verifies the force caches after every accepted move and panics on inconsistencies. It is slow and meant for debugging.
	Check bool

	// Logger receives stage summaries at debug level. Default: discard.
	Logger *slog.Logger

	// Trace is called for every move after it was accepted or rejected.
	Trace func(Move)

	// OnStage is called at the end of every stage.
	OnStage func(Stage)
}

// DefaultOptions are the options used for zero fields.
var DefaultOptions = Options{
	Seed:                    DefaultSeed,
	RepulsiveFactor:         1.0,
	OverlapFactor:           10.0,
	ForceEps:                0.5,
	MinForce:                0.5,
	CoolingStages:           15,
	MovesPerStageMultiplier: 30,
}

// withDefaults returns a copy with zero fields set to their defaults.
func (opts *Options) withDefaults() Options {
	o := DefaultOptions
	if opts == nil {
		o.Logger = slog.New(slog.DiscardHandler)
		return o
	}

	o = *opts
	if o.Seed == 0 {
		o.Seed = DefaultOptions.Seed
	}
	if o.RepulsiveFactor == 0.0 {
		o.RepulsiveFactor = DefaultOptions.RepulsiveFactor
	}
	if o.OverlapFactor == 0.0 {
		o.OverlapFactor = DefaultOptions.OverlapFactor
	}
	if o.ForceEps == 0.0 {
		o.ForceEps = DefaultOptions.ForceEps
	}
	if o.MinForce == 0.0 {
		o.MinForce = DefaultOptions.MinForce
	}
	if o.CoolingStages == 0 {
		o.CoolingStages = DefaultOptions.CoolingStages
	}
	if o.MovesPerStageMultiplier == 0 {
		o.MovesPerStageMultiplier = DefaultOptions.MovesPerStageMultiplier
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Validate returns an error for negative or non-finite factors.
func (opts *Options) Validate() error {
	if opts == nil {
		return nil
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"repulsive factor", opts.RepulsiveFactor},
		{"overlap factor", opts.OverlapFactor},
		{"force eps", opts.ForceEps},
		{"min force", opts.MinForce},
	} {
		if !finite(v.val) || v.val < 0.0 {
			return fmt.Errorf("bad options: %s must be positive, got %g", v.name, v.val)
		}
	}
	if opts.MaxIterations < 0 {
		return fmt.Errorf("bad options: max iterations must not be negative, got %d", opts.MaxIterations)
	}
	return nil
}

// Move describes one attempted move of the annealer.
type Move struct {
	Iteration int
	Label     int
	From, To  canvas.Point
	DeltaE    float64
	Accepted  bool
}

// Stage holds the counters of a finished stage.
type Stage struct {
	Stage         int
	Temperature   float64
	Accepted      int
	Rejected      int
	Insignificant int
	Obstructed    int
	Deactivated   int // label index, or -1
	Energy        float64
}
