// Package plotlabels provides a gonum/plot plotter that places point labels without overlap.
package plotlabels

import (
	"image/color"

	"github.com/tdewolff/canvas"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tdewolff/labelplace"
)

// Labels implements the plot.Plotter interface, drawing the labels of data points at non-overlapping positions around them.
type Labels struct {
	plotter.XYs

	// Labels holds the text of each point.
	Labels []string

	// TextStyle is the style of the label text.
	TextStyle text.Style

	// Padding is the space around the text that is kept free of other labels.
	Padding vg.Length

	// Options are passed to the label placement.
	Options *labelplace.Options

	// Result holds the outcome of the last Plot call, and Err its error.
	Result *labelplace.Result
	Err    error
}

// NewLabels returns a plotter for the points and labels of d.
func NewLabels(d plotter.XYLabeller, opts *labelplace.Options) (*Labels, error) {
	xys, err := plotter.CopyXYs(d)
	if err != nil {
		return nil, err
	}

	labels := make([]string, d.Len())
	for i := range labels {
		labels[i] = d.Label(i)
	}
	return &Labels{
		XYs:    xys,
		Labels: labels,
		TextStyle: text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, vg.Points(10)),
			Handler: plot.DefaultTextHandler,
		},
		Padding: vg.Points(1),
		Options: opts,
	}, nil
}

// Plot places the labels within the data area and draws those that could be placed.
func (l *Labels) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)

	features := make([]labelplace.Feature, 0, len(l.XYs))
	for i, xy := range l.XYs {
		pt := vg.Point{X: trX(xy.X), Y: trY(xy.Y)}
		if !c.Contains(pt) || l.Labels[i] == "" {
			continue
		}
		r := l.TextStyle.Rectangle(l.Labels[i])
		features = append(features, labelplace.Feature{
			Pos:   canvas.Point{X: float64(pt.X), Y: float64(pt.Y)},
			W:     float64(r.Size().X + 2*l.Padding),
			H:     float64(r.Size().Y + 2*l.Padding),
			Text:  l.Labels[i],
			Index: i,
		})
	}

	l.Result, l.Err = labelplace.Place(features, l.Options)
	if l.Err != nil {
		return
	}
	for _, placement := range l.Result.Placements {
		if !placement.Placed {
			continue
		}
		r := l.TextStyle.Rectangle(placement.Text)
		pt := vg.Point{
			X: vg.Length(placement.Rect.X0) + l.Padding - r.Min.X,
			Y: vg.Length(placement.Rect.Y0) + l.Padding - r.Min.Y,
		}
		c.FillText(l.TextStyle, pt, placement.Text)
	}
}

// DataRange returns the minimum and maximum X and Y values.
func (l *Labels) DataRange() (xmin, xmax, ymin, ymax float64) {
	return plotter.XYRange(l)
}

// Unplaced returns the indices of the points whose label was left out in the last Plot call.
func (l *Labels) Unplaced() []int {
	if l.Result == nil {
		return nil
	}
	var idx []int
	for _, placement := range l.Result.Unplaced() {
		idx = append(idx, placement.Index)
	}
	return idx
}
