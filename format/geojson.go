package format

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/canvas"
	"github.com/wroge/wgs84/v2"

	"github.com/tdewolff/labelplace"
)

// projection returns a function from longitude/latitude to the projected coordinates of opts.
func projection(opts Options) func(lon, lat float64) canvas.Point {
	if opts.Projection == NoProjection {
		return func(lon, lat float64) canvas.Point {
			return canvas.Point{X: lon, Y: lat}
		}
	}
	transform := wgs84.Transform(wgs84.EPSG(defaultOrigin), wgs84.EPSG(opts.Projection))
	return func(lon, lat float64) canvas.Point {
		x, y, _ := transform(lon, lat, 0.0)
		return canvas.Point{X: x, Y: y}
	}
}

// ReadGeoJSON reads a FeatureCollection. Point geometries are anchors, other geometries are anchored at the centre of their bounds. The label text comes from the name property, and the optional width and height properties set the label size.
func ReadGeoJSON(r io.Reader, opts Options) ([]labelplace.Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}

	project := projection(opts)
	features := make([]labelplace.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		var pt orb.Point
		if p, ok := f.Geometry.(orb.Point); ok {
			pt = p
		} else {
			pt = f.Geometry.Bound().Center()
		}
		features = append(features, labelplace.Feature{
			Pos:   project(pt.Lon(), pt.Lat()),
			W:     f.Properties.MustFloat64("width", 0.0),
			H:     f.Properties.MustFloat64("height", 0.0),
			Text:  f.Properties.MustString("name", ""),
			Index: len(features),
		})
	}
	Scale(features, opts.Scale)
	return features, nil
}
