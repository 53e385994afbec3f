// Package format reads feature sets and writes placement results.
package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/labelplace"
)

// Projections for geographic input.
const (
	NoProjection  = 0
	WebMercator   = 3857
	defaultOrigin = 4326
)

// Options control the readers.
type Options struct {
	// Projection is the EPSG code that longitude/latitude input is projected to, NoProjection keeps the degrees.
	Projection int

	// Scale multiplies all positions after projection, for example 1e-3 to go from metres to kilometres. Zero is the same as one.
	Scale float64
}

// DefaultOptions project geographic input to Web Mercator.
var DefaultOptions = Options{
	Projection: WebMercator,
	Scale:      1.0,
}

// Measurer returns the label size of a text, in the units of the feature positions.
type Measurer interface {
	Measure(text string) (w, h float64)
}

// Open reads the features of a file, the format is chosen by the file extension: .json, .geojson, .osm or .csv.
func Open(filename string, opts Options) ([]labelplace.Feature, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	features, err := Read(f, Ext(filename), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return features, nil
}

// Ext returns the format name of a filename.
func Ext(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// Read reads features in the given format and scales their positions by opts.Scale.
func Read(r io.Reader, format string, opts Options) ([]labelplace.Feature, error) {
	var features []labelplace.Feature
	var err error
	switch format {
	case "json":
		features, err = ReadJSON(r)
	case "geojson":
		return ReadGeoJSON(r, opts)
	case "osm", "xml":
		return ReadOSM(r, opts)
	case "csv":
		features, err = ReadCSV(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	Scale(features, opts.Scale)
	return features, nil
}

// Measure sets the size of all features without a size but with text. It returns the number of measured features.
func Measure(features []labelplace.Feature, m Measurer) int {
	n := 0
	for i, f := range features {
		if f.W == 0.0 && f.H == 0.0 && f.Text != "" {
			features[i].W, features[i].H = m.Measure(f.Text)
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the feature positions.
func Bounds(features []labelplace.Feature) (x0, y0, x1, y1 float64) {
	for i, f := range features {
		if i == 0 {
			x0, y0, x1, y1 = f.Pos.X, f.Pos.Y, f.Pos.X, f.Pos.Y
			continue
		}
		x0, y0 = min(x0, f.Pos.X), min(y0, f.Pos.Y)
		x1, y1 = max(x1, f.Pos.X), max(y1, f.Pos.Y)
	}
	return
}

// Scale multiplies all positions by s.
func Scale(features []labelplace.Feature, s float64) {
	if s == 1.0 || s == 0.0 {
		return
	}
	for i := range features {
		features[i].Pos = features[i].Pos.Mul(s)
	}
}
