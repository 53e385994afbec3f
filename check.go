package labelplace

import (
	"fmt"
	"math"
)

const (
	antisymmetryTolerance = 1e-9
	energyTolerance       = 1e-6
)

// Check recomputes all forces from scratch and verifies them against the caches. It also checks offset bounds, neighbor symmetry and the obstructed set.
func (p *Placer) Check() error {
	if err := p.sol.CheckNeighbors(); err != nil {
		return err
	}

	fs := p.fs
	energy := 0.0
	for i := range fs.labels {
		l := &fs.labels[i]
		if !finite(l.Offset.X) || !finite(l.Offset.Y) {
			return fmt.Errorf("label %d: offset %v is not finite", i, l.Offset)
		} else if !l.inRange(l.Offset) {
			return fmt.Errorf("label %d: offset %v outside of 0-%gx0-%g", i, l.Offset, l.W, l.H)
		}

		for k, j := range l.Neighbors {
			F, G := fs.pair[i][k], fs.pair[j][fs.mirror[i][k]]
			if !nearly(F.X, -G.X, antisymmetryTolerance) || !nearly(F.Y, -G.Y, antisymmetryTolerance) {
				return fmt.Errorf("labels %d and %d: pairwise forces %v and %v are not opposite", i, j, F, G)
			}
			if want := fs.force(i, j); !nearly(F.X, want.X, antisymmetryTolerance) || !nearly(F.Y, want.Y, antisymmetryTolerance) {
				return fmt.Errorf("labels %d and %d: cached force %v, expected %v", i, j, F, want)
			}
		}

		net := fs.sum(i)
		if !nearly(net.X, fs.net[i].X, energyTolerance) || !nearly(net.Y, fs.net[i].Y, energyTolerance) {
			return fmt.Errorf("label %d: cached net force %v, expected %v", i, fs.net[i], net)
		} else if !l.Active && !fs.net[i].IsZero() {
			return fmt.Errorf("label %d: inactive label has net force %v", i, fs.net[i])
		}
		energy += fs.net[i].Length()

		if obstructed := 0 <= p.obstructedPos[i]; obstructed != p.isObstructed(i) {
			return fmt.Errorf("label %d: obstructed is %v, expected %v", i, obstructed, !obstructed)
		}
	}
	if !finite(fs.energy) {
		return fmt.Errorf("energy %v is not finite", fs.energy)
	} else if !nearly(fs.energy, energy, energyTolerance) {
		return fmt.Errorf("cached energy %v, expected %v", fs.energy, energy)
	}
	return nil
}

func (p *Placer) mustCheck() {
	if err := p.Check(); err != nil {
		panic(fmt.Sprintf("labelplace: inconsistent state after %d iterations: %v", p.stats.Iterations, err))
	}
}

// nearly compares with an absolute tolerance for small numbers and a relative one for large numbers.
func nearly(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1.0, math.Abs(a)+math.Abs(b))
}
