package format

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/test"

	"github.com/tdewolff/labelplace"
)

func TestReadJSON(t *testing.T) {
	features, err := ReadJSON(strings.NewReader(`[
		{"x": 1, "y": 2, "width": 30, "height": 10, "text": "Amsterdam"},
		{"x": -4.5, "y": 0, "text": "Utrecht"}
	]`))
	test.Error(t, err)
	test.T(t, len(features), 2)
	test.T(t, features[0], labelplace.Feature{Pos: canvas.Point{X: 1, Y: 2}, W: 30, H: 10, Text: "Amsterdam", Index: 0})
	test.T(t, features[1].Pos, canvas.Point{X: -4.5, Y: 0})
	test.T(t, features[1].Index, 1)

	_, err = ReadJSON(strings.NewReader(`[{"x": 1, "z": 2}]`))
	test.That(t, err != nil, "unknown field")
	_, err = ReadJSON(strings.NewReader(`{`))
	test.That(t, err != nil, "truncated")
}

func TestReadCSV(t *testing.T) {
	features, err := ReadCSV(strings.NewReader("x,y,width,height,text\n1,2,3,4,Rotterdam\n# comment\n5, 6,,,Den Haag, Zuid\n7,8\n"))
	test.Error(t, err)
	test.T(t, len(features), 3)
	test.T(t, features[0], labelplace.Feature{Pos: canvas.Point{X: 1, Y: 2}, W: 3, H: 4, Text: "Rotterdam", Index: 0})
	test.T(t, features[1].Text, "Den Haag,Zuid")
	test.Float(t, features[1].W, 0.0)
	test.T(t, features[2].Pos, canvas.Point{X: 7, Y: 8})
	test.T(t, features[2].Index, 2)

	var tts = []struct {
		name string
		data string
	}{
		{"short row", "1\n"},
		{"bad number", "1,two\n"},
		{"trailing garbage", "1,2,3px\n"},
		{"missing x", ",2\n"},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			test.That(t, err != nil, "must fail")
		})
	}
}

func TestReadCSVLine(t *testing.T) {
	var tts = []struct {
		name string
		data string
		line string
	}{
		{"after comment", "x,y\n# comment\n1,2\n3,x\n", "csv: line 4: "},
		{"short row after comment", "# comment\n1\n", "csv: line 2: "},
		{"after multiline text", "1,2,3,4,\"North\nSea\"\n5,y\n", "csv: line 3: "},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			test.That(t, err != nil, "must fail")
			test.That(t, strings.HasPrefix(err.Error(), tt.line), err.Error())
		})
	}
}

func TestReadGeoJSON(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [4.9, 52.37]}, "properties": {"name": "Amsterdam"}},
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [2, 4]]}, "properties": {"name": "Road", "width": 3, "height": 1}},
		{"type": "Feature", "geometry": null, "properties": {}}
	]}`

	features, err := ReadGeoJSON(strings.NewReader(data), Options{Projection: NoProjection})
	test.Error(t, err)
	test.T(t, len(features), 2)
	test.T(t, features[0].Text, "Amsterdam")
	test.Float(t, features[0].Pos.X, 4.9)
	test.Float(t, features[0].Pos.Y, 52.37)
	test.T(t, features[1].Pos, canvas.Point{X: 1, Y: 2})
	test.Float(t, features[1].W, 3.0)
	test.Float(t, features[1].H, 1.0)

	// Web Mercator maps the origin to the origin and longitude linearly
	features, err = ReadGeoJSON(strings.NewReader(data), Options{Projection: WebMercator, Scale: 1e-3})
	test.Error(t, err)
	test.FloatDiff(t, features[0].Pos.X, 6378.137*4.9*math.Pi/180.0, 1e-3)
	test.That(t, features[0].Pos.Y > 6000.0, "latitude is stretched")

	_, err = ReadGeoJSON(strings.NewReader(`{"type": "Feature"`), DefaultOptions)
	test.That(t, err != nil)
}

func TestReadOSM(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="52.37" lon="4.89"><tag k="name" v="Dam"/></node>
  <node id="2" lat="52.36" lon="4.88"/>
  <node id="3" lat="52.35" lon="4.87"><tag k="name" v="Museumplein"/><tag k="tourism" v="yes"/></node>
</osm>`
	features, err := ReadOSM(strings.NewReader(data), Options{Projection: NoProjection})
	test.Error(t, err)
	test.T(t, len(features), 2)
	test.T(t, features[0].Text, "Dam")
	test.Float(t, features[0].Pos.X, 4.89)
	test.Float(t, features[0].Pos.Y, 52.37)
	test.T(t, features[1].Text, "Museumplein")
	test.T(t, features[1].Index, 1)
}

func TestRead(t *testing.T) {
	_, err := Read(strings.NewReader(""), "shp", DefaultOptions)
	test.That(t, err != nil, "unknown format")
	test.T(t, Ext("points.GeoJSON"), "geojson")

	filename := filepath.Join(t.TempDir(), "points.csv")
	test.Error(t, os.WriteFile(filename, []byte("1,2,3,4,a\n"), 0o644))
	features, err := Open(filename, DefaultOptions)
	test.Error(t, err)
	test.T(t, len(features), 1)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions)
	test.That(t, err != nil)
}

func TestReadScale(t *testing.T) {
	features, err := Read(strings.NewReader("1,2\n-3,0.5\n"), "csv", Options{Scale: 2.0})
	test.Error(t, err)
	test.T(t, features[0].Pos, canvas.Point{X: 2, Y: 4})
	test.T(t, features[1].Pos, canvas.Point{X: -6, Y: 1})

	features, err = Read(strings.NewReader(`[{"x": 1, "y": 2}]`), "json", Options{Scale: 0.5})
	test.Error(t, err)
	test.T(t, features[0].Pos, canvas.Point{X: 0.5, Y: 1})

	features, err = Read(strings.NewReader("1,2\n"), "csv", Options{})
	test.Error(t, err)
	test.T(t, features[0].Pos, canvas.Point{X: 1, Y: 2})
}

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string) (float64, float64) {
	return float64(len(text)), 1.0
}

func TestMeasure(t *testing.T) {
	features := []labelplace.Feature{
		{Text: "abc"},
		{Text: "de", W: 5, H: 5},
		{},
	}
	test.T(t, Measure(features, fixedMeasurer{}), 1)
	test.Float(t, features[0].W, 3.0)
	test.Float(t, features[0].H, 1.0)
	test.Float(t, features[1].W, 5.0)
	test.Float(t, features[2].W, 0.0)
}

func TestBoundsScale(t *testing.T) {
	features := []labelplace.Feature{
		{Pos: canvas.Point{X: 1, Y: 5}},
		{Pos: canvas.Point{X: -2, Y: 3}},
		{Pos: canvas.Point{X: 4, Y: 4}},
	}
	x0, y0, x1, y1 := Bounds(features)
	test.T(t, []float64{x0, y0, x1, y1}, []float64{-2, 3, 4, 5})

	Scale(features, 2.0)
	test.T(t, features[1].Pos, canvas.Point{X: -4, Y: 6})
}

func TestNum(t *testing.T) {
	test.String(t, num(0.5).String(), "0.5")
	test.String(t, num(-0.25).String(), "-0.25")
	test.String(t, num(12).String(), "12")
	test.String(t, num(math.NaN()).String(), "null")
}

func TestWriteJSON(t *testing.T) {
	res, err := labelplace.Place([]labelplace.Feature{
		{Pos: canvas.Point{X: 0, Y: 0}, W: 10, H: 5, Text: "a \"quoted\" label"},
		{Pos: canvas.Point{X: 100, Y: 0}, W: 10, H: 5, Text: "b"},
	}, nil)
	test.Error(t, err)

	var b bytes.Buffer
	test.Error(t, WriteJSON(&b, res))

	var out struct {
		Placements []struct {
			Index  int    `json:"index"`
			Text   string `json:"text"`
			X, Y   float64
			Placed bool      `json:"placed"`
			Offset []float64 `json:"offset"`
			Rect   []float64 `json:"rect"`
		} `json:"placements"`
		Stats map[string]float64 `json:"stats"`
	}
	test.Error(t, json.Unmarshal(b.Bytes(), &out))
	test.T(t, len(out.Placements), 2)
	test.T(t, out.Placements[0].Text, "a \"quoted\" label")
	test.T(t, out.Placements[0].Placed, true)
	test.T(t, len(out.Placements[0].Rect), 4)
	test.Float(t, out.Placements[1].X, 100.0)
	test.FloatDiff(t, out.Placements[0].Rect[2]-out.Placements[0].Rect[0], 10.0, 1e-6)
	test.Float(t, out.Stats["final_overlaps"], 0.0)
}
