package labelplace

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/tdewolff/canvas"
)

// State of the annealer.
type State int

// see State
const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "invalid"
}

const (
	acceptProbability = 0.3 // p1, chance to accept an overlap of overlapFraction of the average label
	overlapFraction   = 0.5 // p2
	slideStart        = 0.2 // first slide step as a fraction of the distance to the boundary
	slideSteps        = 20
	fallbackCooling   = 0.9
)

// Placer runs the annealing search on a Solution. It is not safe for concurrent use.
type Placer struct {
	sol  *Solution
	opts Options
	log  *slog.Logger
	rng  *rand.Rand
	fs   *forceState
	undo snapshot

	state         State
	obstructed    []int
	obstructedPos []int // position in obstructed, or -1

	temperature   float64
	cooling       float64
	movesPerStage int

	stage                             int
	accepted, rejected, insignificant int
	stats                             Stats
}

// NewPlacer prepares the search: it moves every label to a random candidate offset, computes all forces and sets the initial temperature.
func NewPlacer(sol *Solution, opts *Options) (*Placer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()

	n := sol.Len()
	p := &Placer{
		sol:           sol,
		opts:          o,
		log:           o.Logger.With(slog.String("component", "labelplace")),
		rng:           rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15)),
		state:         Running,
		obstructedPos: make([]int, n),
		movesPerStage: int(o.MovesPerStageMultiplier) * n,
	}
	p.stats.InitialOverlaps = sol.Overlaps()

	labels := sol.Labels
	for i := range labels {
		labels[i].Offset = labels[i].Candidates()[p.rng.IntN(8)]
	}
	p.fs = newForceState(labels, o.RepulsiveFactor, o.OverlapFactor, o.ForceEps)
	p.fs.init()

	for i := range p.obstructedPos {
		p.obstructedPos[i] = -1
		if p.isObstructed(i) {
			p.addObstructed(i)
		}
	}
	p.stats.StartOverlaps = sol.Overlaps()

	// running mean, a plain sum may overflow for huge labels
	area := 0.0
	for i := range labels {
		area += (labels[i].W*labels[i].H - area) / float64(i+1)
	}
	penalty := 3.0 / (o.ForceEps * o.ForceEps)
	p.temperature = (area*overlapFraction*o.OverlapFactor + penalty + o.RepulsiveFactor/(o.ForceEps*o.ForceEps)) / -math.Log(acceptProbability)
	p.cooling = math.Pow(p.temperature, -1.0/float64(o.CoolingStages))
	if !(p.cooling < 1.0) {
		p.cooling = fallbackCooling
	}

	if o.Check {
		p.mustCheck()
	}
	p.log.Debug("start", "labels", n, "obstructed", len(p.obstructed), "energy", p.fs.energy, "temperature", p.temperature, "cooling", p.cooling)
	return p, nil
}

// State returns the state of the search.
func (p *Placer) State() State {
	return p.state
}

// Energy returns the sum of the net force magnitudes of all labels.
func (p *Placer) Energy() float64 {
	return p.fs.energy
}

// Temperature returns the current temperature.
func (p *Placer) Temperature() float64 {
	return p.temperature
}

// NetForce returns the net force acting on label i.
func (p *Placer) NetForce(i int) canvas.Point {
	return p.fs.net[i]
}

// Obstructed returns the indices of the labels that overlap a neighbor or can still slide.
func (p *Placer) Obstructed() []int {
	return append([]int{}, p.obstructed...)
}

// Solution returns the solution that is being modified.
func (p *Placer) Solution() *Solution {
	return p.sol
}

// Stats returns the counters of the search so far.
func (p *Placer) Stats() Stats {
	stats := p.stats
	stats.Energy = p.fs.energy
	stats.Temperature = p.temperature
	stats.FinalOverlaps = p.sol.Overlaps()
	return stats
}

// Run steps until the search stops, the iteration limit is reached, or the context is done.
func (p *Placer) Run(ctx context.Context) error {
	for p.state == Running {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Step()
	}
	return nil
}

// Step performs one iteration and returns false once the search has stopped.
func (p *Placer) Step() bool {
	if p.state != Running {
		return false
	} else if len(p.obstructed) == 0 {
		p.stop("placed")
		return false
	} else if 0 < p.opts.MaxIterations && p.opts.MaxIterations <= p.stats.Iterations {
		p.stop("iteration limit")
		return false
	}

	i := p.obstructed[p.rng.IntN(len(p.obstructed))]
	from := p.sol.Labels[i].Offset
	p.fs.snapshot(i, &p.undo)
	E := p.fs.energy

	h, v := p.fs.canSlideH(i, p.opts.MinForce), p.fs.canSlideV(i, p.opts.MinForce)
	if h || v {
		if h && v {
			// prefer the axis with the larger force
			F := p.NetForce(i)
			fx, fy := math.Abs(F.X), math.Abs(F.Y)
			h = p.rng.Float64()*(fx+fy) < fx
		}
		if p.slide(i, h) {
			p.jump(i)
		}
	} else {
		p.jump(i)
	}

	dE := p.fs.energy - E
	accept := dE <= 0.0 || p.rng.Float64() <= math.Exp(-dE/p.temperature)
	to := p.sol.Labels[i].Offset
	if accept {
		p.accepted++
		p.stats.Accepted++
		if math.Abs(dE) < p.opts.MinForce {
			p.insignificant++
		}
		p.refresh(i)
		for _, j := range p.sol.Labels[i].Neighbors {
			p.refresh(j)
		}
		if p.opts.Check {
			p.mustCheck()
		}
	} else {
		p.fs.restore(&p.undo)
		p.rejected++
		p.stats.Rejected++
	}
	if p.opts.Trace != nil {
		p.opts.Trace(Move{
			Iteration: p.stats.Iterations,
			Label:     i,
			From:      from,
			To:        to,
			DeltaE:    dE,
			Accepted:  accept,
		})
	}
	p.stats.Iterations++

	if p.movesPerStage <= p.accepted+p.rejected {
		p.endStage()
	}
	return p.state == Running
}

// slide moves label i along one axis towards force equilibrium. It returns true if the label can still slide afterwards.
func (p *Placer) slide(i int, horizontal bool) bool {
	l := &p.sol.Labels[i]
	axis := func(q canvas.Point) float64 {
		if horizontal {
			return q.X
		}
		return q.Y
	}
	setAxis := func(q canvas.Point, v float64) canvas.Point {
		if horizontal {
			q.X = v
		} else {
			q.Y = v
		}
		return q
	}
	size := l.H
	if horizontal {
		size = l.W
	}

	F := axis(p.fs.net[i])
	offset := axis(l.Offset)
	sign := math.Copysign(1.0, F)

	// a positive force decreases the offset
	remaining := size - offset
	if 0.0 < F {
		remaining = offset
	}
	step := slideStart * remaining
	for k := 0; k < slideSteps && p.opts.MinForce <= math.Abs(F) && 0.0 < step; k++ {
		p.fs.move(i, l.clamp(setAxis(l.Offset, offset-sign*step)))
		offset = axis(l.Offset)

		F = axis(p.fs.net[i])
		if math.Abs(F) < p.opts.MinForce {
			break
		} else if math.Copysign(1.0, F) != sign {
			sign = -sign
			step /= 2.0
		} else if offset == 0.0 && 0.0 < F || offset == size && F < 0.0 {
			break // pushed against the boundary
		}
	}

	if horizontal {
		return p.fs.canSlideH(i, p.opts.MinForce)
	}
	return p.fs.canSlideV(i, p.opts.MinForce)
}

// jump moves label i to a random candidate offset different from the current one. Labels without a distinct candidate, such as zero-sized labels, stay put.
func (p *Placer) jump(i int) {
	l := &p.sol.Labels[i]
	candidates := l.Candidates()
	distinct := false
	for _, c := range candidates {
		if c != l.Offset {
			distinct = true
			break
		}
	}
	if !distinct {
		return
	}

	for {
		if c := candidates[p.rng.IntN(len(candidates))]; c != l.Offset {
			p.fs.move(i, c)
			return
		}
	}
}

// isObstructed is true if label i is active and overlaps a neighbor or can slide.
func (p *Placer) isObstructed(i int) bool {
	if !p.sol.Labels[i].Active {
		return false
	}
	return 0 < p.sol.overlapping(i) || p.fs.canSlideH(i, p.opts.MinForce) || p.fs.canSlideV(i, p.opts.MinForce)
}

func (p *Placer) refresh(i int) {
	if p.isObstructed(i) {
		p.addObstructed(i)
	} else {
		p.removeObstructed(i)
	}
}

func (p *Placer) addObstructed(i int) {
	if p.obstructedPos[i] < 0 {
		p.obstructedPos[i] = len(p.obstructed)
		p.obstructed = append(p.obstructed, i)
	}
}

func (p *Placer) removeObstructed(i int) {
	if k := p.obstructedPos[i]; 0 <= k {
		last := p.obstructed[len(p.obstructed)-1]
		p.obstructed[k] = last
		p.obstructedPos[last] = k
		p.obstructed = p.obstructed[:len(p.obstructed)-1]
		p.obstructedPos[i] = -1
	}
}

// worst returns the obstructed label with the most overlapping neighbors, ties are broken by the lowest index. It returns -1 if no obstructed label overlaps.
func (p *Placer) worst() int {
	worst, most := -1, 0
	for _, i := range p.obstructed {
		if n := p.sol.overlapping(i); most < n || n == most && 0 < n && i < worst {
			worst, most = i, n
		}
	}
	return worst
}

// Deactivate gives up on label i, it will be reported as unplaceable.
func (p *Placer) Deactivate(i int) {
	if !p.sol.Labels[i].Active {
		return
	}
	p.fs.deactivate(i)
	p.removeObstructed(i)
	for _, j := range p.sol.Labels[i].Neighbors {
		p.refresh(j)
	}
	p.stats.Deactivated++
}

func (p *Placer) endStage() {
	stage := Stage{
		Stage:         p.stage,
		Temperature:   p.temperature,
		Accepted:      p.accepted,
		Rejected:      p.rejected,
		Insignificant: p.insignificant,
		Deactivated:   -1,
	}

	worst := p.worst()
	if worst < 0 {
		p.finishStage(stage)
		p.stop("no overlaps left")
		return
	}
	if p.accepted-p.insignificant <= 0 {
		p.Deactivate(worst)
		stage.Deactivated = worst
	}

	p.temperature *= p.cooling
	n := p.sol.Len()
	p.movesPerStage = min(max(50*len(p.obstructed), n), 10*n)
	p.fs.resync()
	p.finishStage(stage)

	p.stage++
	p.accepted, p.rejected, p.insignificant = 0, 0, 0
}

func (p *Placer) finishStage(stage Stage) {
	stage.Obstructed = len(p.obstructed)
	stage.Energy = p.fs.energy
	p.stats.Stages++
	p.log.Debug("stage", "stage", stage.Stage, "temperature", stage.Temperature, "accepted", stage.Accepted, "rejected", stage.Rejected, "insignificant", stage.Insignificant, "obstructed", stage.Obstructed, "deactivated", stage.Deactivated, "energy", stage.Energy)
	if p.opts.OnStage != nil {
		p.opts.OnStage(stage)
	}
}

func (p *Placer) stop(reason string) {
	p.state = Stopped
	p.log.Debug("stop", "reason", reason, "iterations", p.stats.Iterations, "stages", p.stats.Stages, "deactivated", p.stats.Deactivated, "energy", p.fs.energy)
}
