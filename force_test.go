package labelplace

import (
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/test"
)

func pairState(t *testing.T, a, b canvas.Point) *forceState {
	t.Helper()
	sol, err := NewSolution([]Feature{
		{Pos: canvas.Point{X: 0, Y: 0}, W: 10, H: 10},
		{Pos: canvas.Point{X: 15, Y: 0}, W: 10, H: 10},
	})
	test.Error(t, err)
	test.T(t, sol.Labels[0].Neighbors, []int{1})
	sol.Labels[0].Offset = a
	sol.Labels[1].Offset = b

	fs := newForceState(sol.Labels, 1.0, 10.0, 0.5)
	fs.init()
	return fs
}

func TestForce(t *testing.T) {
	// gap of 5 to the right
	fs := pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 0, Y: 0})
	test.T(t, fs.force(0, 1), canvas.Point{X: -0.04, Y: 0})
	test.T(t, fs.force(1, 0), canvas.Point{X: 0.04, Y: 0})
	test.T(t, fs.net[0], canvas.Point{X: -0.04, Y: 0})
	test.Float(t, fs.energy, 0.08)

	// overlap of 5x10: 1/0.5^2 + 10*50 + 3/0.5^2
	fs = pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 10, Y: 0})
	test.T(t, fs.force(0, 1), canvas.Point{X: -516, Y: 0})
	test.Float(t, fs.energy, 1032)

	// touching edges are not overlapping, the distance is clamped to eps
	fs = pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 5, Y: 0})
	test.T(t, fs.force(0, 1), canvas.Point{X: -4, Y: 0})

	// diagonal
	fs = pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 0, Y: 10})
	F := fs.force(0, 1)
	test.That(t, F.X < 0.0 && 0.0 < F.Y, "points away from the neighbor")
}

func TestForceCoincident(t *testing.T) {
	sol, err := NewSolution([]Feature{
		{Pos: canvas.Point{X: 5, Y: 5}, W: 10, H: 10},
		{Pos: canvas.Point{X: 5, Y: 5}, W: 10, H: 10},
	})
	test.Error(t, err)
	fs := newForceState(sol.Labels, 1.0, 10.0, 0.5)
	fs.init()
	test.T(t, fs.force(0, 1), canvas.Point{})
	test.Float(t, fs.energy, 0.0)
}

func TestForceMoveRestore(t *testing.T) {
	fs := pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 0, Y: 0})
	E := fs.energy

	var s snapshot
	fs.snapshot(1, &s)
	dE := fs.move(1, canvas.Point{X: 10, Y: 0})
	test.Float(t, dE, 1032-E)
	test.T(t, fs.pair[0][0], fs.pair[1][0].Neg())

	fs.restore(&s)
	test.Float(t, fs.energy, E)
	test.T(t, fs.labels[1].Offset, canvas.Point{X: 0, Y: 0})
	test.T(t, fs.pair[0][0], canvas.Point{X: -0.04, Y: 0})
	test.T(t, fs.pair[1][0], canvas.Point{X: 0.04, Y: 0})
	test.T(t, fs.net[1], canvas.Point{X: 0.04, Y: 0})
}

func TestForceDeactivate(t *testing.T) {
	fs := pairState(t, canvas.Point{X: 0, Y: 0}, canvas.Point{X: 10, Y: 0})
	fs.deactivate(1)
	test.T(t, fs.net[0], canvas.Point{})
	test.T(t, fs.net[1], canvas.Point{})
	test.Float(t, fs.energy, 0.0)

	// moving the remaining label does not bring back forces
	fs.move(0, canvas.Point{X: 5, Y: 5})
	test.Float(t, fs.energy, 0.0)
}

func TestCanSlide(t *testing.T) {
	test.T(t, canSlide(1.0, 5.0, 10.0, 0.5), true)
	test.T(t, canSlide(1.0, 0.0, 10.0, 0.5), false) // pushed against the boundary
	test.T(t, canSlide(-1.0, 0.0, 10.0, 0.5), true)
	test.T(t, canSlide(-1.0, 10.0, 10.0, 0.5), false)
	test.T(t, canSlide(0.5, 5.0, 10.0, 0.5), false) // too weak

	// label 0 on its bottom edge is pushed left by label 1
	fs := pairState(t, canvas.Point{X: 5, Y: 0}, canvas.Point{X: 0, Y: 0})
	fs.labels[1].Offset = canvas.Point{X: 10, Y: 5}
	fs.init()
	test.That(t, fs.net[0].X < -0.5)
	test.T(t, fs.canSlideH(0, 0.5), true)
	test.T(t, fs.canSlideV(0, 0.5), false) // not on a vertical edge
}
