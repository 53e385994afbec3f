package labelplace

import (
	"fmt"

	"github.com/tdewolff/canvas"
)

// Label is the placement of one feature's label. The label rectangle's minimum corner is at Feature.Pos - Offset, where 0 <= Offset.X <= Feature.W and 0 <= Offset.Y <= Feature.H.
type Label struct {
	Feature
	Offset canvas.Point

	// Neighbors holds the indices of the labels that can overlap this label for some pair of offsets.
	Neighbors []int

	// Active is false for labels that were given up on; they exert no forces and are reported as unplaceable.
	Active bool

	index int
}

// Rect returns the label rectangle at the current offset.
func (l *Label) Rect() canvas.Rect {
	return l.rectAt(l.Offset)
}

func (l *Label) rectAt(offset canvas.Point) canvas.Rect {
	x0 := l.Pos.X - offset.X
	y0 := l.Pos.Y - offset.Y
	return canvas.Rect{X0: x0, Y0: y0, X1: x0 + l.W, Y1: y0 + l.H}
}

// Center returns the center of the label rectangle.
func (l *Label) Center() canvas.Point {
	return center(l.Rect())
}

// Candidates returns the eight discrete offsets: the four corners and four edge midpoints of the offset range.
func (l *Label) Candidates() [8]canvas.Point {
	w, h := l.W, l.H
	return [8]canvas.Point{
		{X: 0.0, Y: 0.0},
		{X: w / 2.0, Y: 0.0},
		{X: w, Y: 0.0},
		{X: w, Y: h / 2.0},
		{X: w, Y: h},
		{X: w / 2.0, Y: h},
		{X: 0.0, Y: h},
		{X: 0.0, Y: h / 2.0},
	}
}

// clamp limits an offset to the offset range.
func (l *Label) clamp(offset canvas.Point) canvas.Point {
	offset.X = min(max(offset.X, 0.0), l.W)
	offset.Y = min(max(offset.Y, 0.0), l.H)
	return offset
}

func (l *Label) inRange(offset canvas.Point) bool {
	return 0.0 <= offset.X && offset.X <= l.W && 0.0 <= offset.Y && offset.Y <= l.H
}

func (l *Label) String() string {
	state := "active"
	if !l.Active {
		state = "unplaceable"
	}
	return fmt.Sprintf("label %d %v offset=%v %s", l.index, l.Feature, l.Offset, state)
}
