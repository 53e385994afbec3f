package plotlabels

import (
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/test"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/tdewolff/labelplace"
)

func cluster() plotter.XYLabels {
	xys := plotter.XYs{}
	labels := []string{}
	for i := 0; i < 12; i++ {
		xys = append(xys, plotter.XY{X: float64(i % 4), Y: float64(i / 4)})
		labels = append(labels, "point "+string(rune('A'+i)))
	}
	return plotter.XYLabels{XYs: xys, Labels: labels}
}

func TestNewLabels(t *testing.T) {
	l, err := NewLabels(cluster(), nil)
	test.Error(t, err)
	test.T(t, len(l.XYs), 12)
	test.T(t, l.Labels[1], "point B")

	xmin, xmax, ymin, ymax := l.DataRange()
	test.T(t, []float64{xmin, xmax, ymin, ymax}, []float64{0, 3, 0, 2})
	test.T(t, len(l.Unplaced()), 0)
}

func TestPlot(t *testing.T) {
	l, err := NewLabels(cluster(), &labelplace.Options{Seed: 1})
	test.Error(t, err)

	p := plot.New()
	p.Add(l)

	c := canvas.New(60.0, 40.0)
	p.Draw(renderers.NewGonumPlot(c))
	test.Error(t, l.Err)
	test.That(t, l.Result != nil, "labels were placed")
	test.T(t, len(l.Result.Placements), 12)
	test.T(t, l.Result.Solution.Overlaps(), 0)
	test.T(t, len(l.Unplaced()), l.Result.Stats.Deactivated)
	for i, placement := range l.Result.Placements {
		test.T(t, placement.Index, i)
		test.That(t, 0.0 < placement.W && 0.0 < placement.H, "measured")
	}
}
