// Package preview draws placed labels with canvas and measures label text.
package preview

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"

	"github.com/tdewolff/labelplace"
)

// Options of the preview. Lengths are in millimetres and the font size in points.
type Options struct {
	// Scale converts feature units to millimetres. Use Fit to derive it from a target width.
	Scale float64

	FontSize   float64
	Padding    float64
	Margin     float64
	Resolution float64 // dots per millimetre for raster formats

	// YDown flips the vertical axis for input in screen coordinates.
	YDown bool

	// Unplaced also draws the anchors of labels that could not be placed.
	Unplaced bool
}

// DefaultOptions are the default preview options.
var DefaultOptions = Options{
	Scale:      1.0,
	FontSize:   8.0,
	Padding:    0.5,
	Margin:     5.0,
	Resolution: 8.0,
}

// Colors of the preview.
var (
	BoxFill      = canvas.Hex("#FFF8DCCC")
	BoxStroke    = canvas.Hex("#8B7355")
	AnchorColor  = canvas.Hex("#B22222")
	UnplacedFill = canvas.Hex("#999999")
	TextColor    = canvas.Black
)

const (
	anchorRadius = 0.6
	strokeWidth  = 0.2
)

var (
	fontOnce   sync.Once
	fontFamily *canvas.FontFamily
	fontErr    error
)

// Font returns the embedded Latin Modern Roman family.
func Font() (*canvas.FontFamily, error) {
	fontOnce.Do(func() {
		fontFamily = canvas.NewFontFamily("latin-modern-roman")
		fontErr = fontFamily.LoadFont(lmroman10regular.TTF, 0, canvas.FontRegular)
	})
	return fontFamily, fontErr
}

func face(size float64, col color.Color) (*canvas.FontFace, error) {
	family, err := Font()
	if err != nil {
		return nil, fmt.Errorf("preview font: %w", err)
	}
	return family.Face(size, col, canvas.FontRegular, canvas.FontNormal), nil
}

// Fit returns the scale that maps the larger side of the given bounds onto width millimetres.
func Fit(x0, y0, x1, y1, width float64) float64 {
	size := math.Max(x1-x0, y1-y0)
	if size <= 0.0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return 1.0
	}
	return width / size
}

// Measurer measures label text in feature units.
type Measurer struct {
	face    *canvas.FontFace
	padding float64
	scale   float64
}

// NewMeasurer returns a Measurer for the font size, padding and scale of opts.
func NewMeasurer(opts Options) (*Measurer, error) {
	f, err := face(opts.FontSize, TextColor)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0.0 {
		scale = 1.0
	}
	return &Measurer{face: f, padding: opts.Padding, scale: scale}, nil
}

// Measure returns the size of the box around text.
func (m *Measurer) Measure(text string) (float64, float64) {
	w := m.face.TextWidth(text) + 2.0*m.padding
	h := m.face.Metrics().LineHeight + 2.0*m.padding
	return w / m.scale, h / m.scale
}

// Bounds returns the area in feature units covered by the anchors and placed labels.
func Bounds(sol *labelplace.Solution) canvas.Rect {
	r := canvas.Rect{}
	for i, l := range sol.Labels {
		lr := canvas.Rect{X0: l.Pos.X, Y0: l.Pos.Y, X1: l.Pos.X, Y1: l.Pos.Y}
		if l.Active {
			lr = l.Rect()
		}
		if i == 0 {
			r = lr
			continue
		}
		r.X0, r.Y0 = math.Min(r.X0, lr.X0), math.Min(r.Y0, lr.Y0)
		r.X1, r.Y1 = math.Max(r.X1, lr.X1), math.Max(r.Y1, lr.Y1)
	}
	return r
}

// Render draws the solution on a new canvas.
func Render(sol *labelplace.Solution, opts Options) (*canvas.Canvas, error) {
	f, err := face(opts.FontSize, TextColor)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0.0 {
		scale = 1.0
	}

	bounds := Bounds(sol)
	W := (bounds.X1-bounds.X0)*scale + 2.0*opts.Margin
	H := (bounds.Y1-bounds.Y0)*scale + 2.0*opts.Margin
	W, H = math.Max(W, 1.0), math.Max(H, 1.0)

	c := canvas.New(W, H)
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0.0, 0.0, canvas.Rectangle(W, H))

	// transform from feature units to the canvas, optionally flipping the vertical axis
	tr := func(x, y float64) (float64, float64) {
		x = opts.Margin + (x-bounds.X0)*scale
		y = opts.Margin + (y-bounds.Y0)*scale
		if opts.YDown {
			y = H - y
		}
		return x, y
	}

	ctx.SetStrokeWidth(strokeWidth)
	descent := f.Metrics().Descent
	for _, l := range sol.Labels {
		if !l.Active {
			continue
		}
		r := l.Rect()
		x0, y0 := tr(r.X0, r.Y0)
		x1, y1 := tr(r.X1, r.Y1)
		x0, x1 = math.Min(x0, x1), math.Max(x0, x1)
		y0, y1 = math.Min(y0, y1), math.Max(y0, y1)

		ctx.SetFillColor(BoxFill)
		ctx.SetStrokeColor(BoxStroke)
		ctx.DrawPath(x0, y0, canvas.Rectangle(x1-x0, y1-y0))
		if l.Text != "" {
			ctx.DrawText(x0+opts.Padding, y0+opts.Padding+descent, canvas.NewTextLine(f, l.Text, canvas.Left))
		}
	}

	ctx.SetStrokeColor(canvas.Transparent)
	for _, l := range sol.Labels {
		if !l.Active && !opts.Unplaced {
			continue
		}
		if l.Active {
			ctx.SetFillColor(AnchorColor)
		} else {
			ctx.SetFillColor(UnplacedFill)
		}
		x, y := tr(l.Pos.X, l.Pos.Y)
		ctx.DrawPath(x, y, canvas.Circle(anchorRadius))
	}
	return c, nil
}

// Write renders the solution to a file, the format follows from the extension (svg, pdf, png, ...).
func Write(filename string, sol *labelplace.Solution, opts Options) error {
	c, err := Render(sol, opts)
	if err != nil {
		return err
	}
	if !isRaster(filename) {
		return renderers.Write(filename, c)
	}
	resolution := opts.Resolution
	if resolution <= 0.0 {
		resolution = DefaultOptions.Resolution
	}
	return renderers.Write(filename, c, canvas.DPMM(resolution))
}

// isRaster is true for image formats that take a resolution, vector formats reject it.
func isRaster(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp", ".avif":
		return true
	}
	return false
}
