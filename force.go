package labelplace

import (
	"math"

	"github.com/tdewolff/canvas"
)

// forceState caches the forces between labels. All offset changes go through move or deactivate so that the pairwise forces, the net forces and the energy stay in sync.
type forceState struct {
	labels []Label

	krep, kovl, eps, penalty float64

	// pair[i][k] is the force that label Neighbors[k] exerts on label i, mirror[i][k] is the position of i in the neighbors of Neighbors[k]
	pair   [][]canvas.Point
	mirror [][]int
	net    []canvas.Point
	energy float64

	// trace, if set, receives every offset change made by move
	trace func(i int, offset canvas.Point)
}

func newForceState(labels []Label, krep, kovl, eps float64) *forceState {
	fs := &forceState{
		labels:  labels,
		krep:    krep,
		kovl:    kovl,
		eps:     eps,
		penalty: 3.0 / (eps * eps),
		pair:    make([][]canvas.Point, len(labels)),
		mirror:  make([][]int, len(labels)),
		net:     make([]canvas.Point, len(labels)),
	}
	for i := range labels {
		neighbors := labels[i].Neighbors
		fs.pair[i] = make([]canvas.Point, len(neighbors))
		fs.mirror[i] = make([]int, len(neighbors))
		for k, j := range neighbors {
			fs.mirror[i][k] = slot(labels[j].Neighbors, i)
		}
	}
	return fs
}

// force returns the force that label j exerts on label i.
func (fs *forceState) force(i, j int) canvas.Point {
	a, b := &fs.labels[i], &fs.labels[j]
	if !a.Active || !b.Active {
		return canvas.Point{}
	}

	ra, rb := a.Rect(), b.Rect()
	d := distance(ra, rb)
	v := math.Max(d, fs.eps)
	f := fs.krep / (v * v)
	if d < 0.0 {
		f += fs.kovl*overlapArea(ra, rb) + fs.penalty
	}

	dir := center(ra).Sub(center(rb))
	length := dir.Length()
	if length == 0.0 {
		return canvas.Point{}
	}
	return dir.Mul(f / length)
}

// init computes all forces from scratch.
func (fs *forceState) init() {
	for i := range fs.labels {
		for k, j := range fs.labels[i].Neighbors {
			if i < j {
				F := fs.force(i, j)
				fs.pair[i][k] = F
				fs.pair[j][fs.mirror[i][k]] = F.Neg()
			}
		}
	}
	fs.energy = 0.0
	for i := range fs.labels {
		fs.net[i] = fs.sum(i)
		fs.energy += fs.net[i].Length()
	}
}

// sum adds up the pairwise forces acting on label i.
func (fs *forceState) sum(i int) canvas.Point {
	var F canvas.Point
	for _, f := range fs.pair[i] {
		F = F.Add(f)
	}
	return F
}

// setNet replaces the net force of label i and updates the energy.
func (fs *forceState) setNet(i int, F canvas.Point) {
	fs.energy += F.Length() - fs.net[i].Length()
	fs.net[i] = F
}

// update recomputes the pairwise forces between label i and its neighbors, and the net forces of all of them.
func (fs *forceState) update(i int) {
	for k, j := range fs.labels[i].Neighbors {
		F := fs.force(i, j)
		fs.pair[i][k] = F
		fs.pair[j][fs.mirror[i][k]] = F.Neg()
	}
	fs.setNet(i, fs.sum(i))
	for _, j := range fs.labels[i].Neighbors {
		fs.setNet(j, fs.sum(j))
	}
}

// move sets the offset of label i and returns the change in energy.
func (fs *forceState) move(i int, offset canvas.Point) float64 {
	E := fs.energy
	fs.labels[i].Offset = offset
	if fs.trace != nil {
		fs.trace(i, offset)
	}
	fs.update(i)
	return fs.energy - E
}

// deactivate removes label i from the solution, zeroing its forces.
func (fs *forceState) deactivate(i int) {
	fs.labels[i].Active = false
	fs.update(i)
}

// resync recomputes the energy from the net forces to remove accumulated rounding errors.
func (fs *forceState) resync() {
	fs.energy = 0.0
	for i := range fs.net {
		fs.energy += fs.net[i].Length()
	}
}

// snapshot holds what is needed to undo moves of a single label.
type snapshot struct {
	label  int
	offset canvas.Point
	energy float64
	pair   []canvas.Point
	net    []canvas.Point // label followed by its neighbors
}

func (fs *forceState) snapshot(i int, s *snapshot) {
	s.label = i
	s.offset = fs.labels[i].Offset
	s.energy = fs.energy
	s.pair = append(s.pair[:0], fs.pair[i]...)
	s.net = append(s.net[:0], fs.net[i])
	for _, j := range fs.labels[i].Neighbors {
		s.net = append(s.net, fs.net[j])
	}
}

func (fs *forceState) restore(s *snapshot) {
	i := s.label
	fs.labels[i].Offset = s.offset
	copy(fs.pair[i], s.pair)
	fs.net[i] = s.net[0]
	for k, j := range fs.labels[i].Neighbors {
		fs.pair[j][fs.mirror[i][k]] = s.pair[k].Neg()
		fs.net[j] = s.net[k+1]
	}
	fs.energy = s.energy
}

// canSlideH is true if label i sits on its top or bottom edge and a horizontal force can still push it along that edge.
func (fs *forceState) canSlideH(i int, minForce float64) bool {
	l := &fs.labels[i]
	if !l.Active || l.Offset.Y != 0.0 && l.Offset.Y != l.H {
		return false
	}
	return canSlide(fs.net[i].X, l.Offset.X, l.W, minForce)
}

// canSlideV is true if label i sits on its left or right edge and a vertical force can still push it along that edge.
func (fs *forceState) canSlideV(i int, minForce float64) bool {
	l := &fs.labels[i]
	if !l.Active || l.Offset.X != 0.0 && l.Offset.X != l.W {
		return false
	}
	return canSlide(fs.net[i].Y, l.Offset.Y, l.H, minForce)
}

// canSlide is true if force F is significant and moves the rectangle into the open offset range. A positive force moves the rectangle up the axis, which decreases the offset.
func canSlide(F, offset, size, minForce float64) bool {
	if math.Abs(F) <= minForce {
		return false
	} else if 0.0 < F {
		return 0.0 < offset
	}
	return offset < size
}
