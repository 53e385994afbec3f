package format

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/minify/v2"

	"github.com/tdewolff/labelplace"
)

// Precision is the number of significant digits of written numbers.
var Precision = 8

type jsonFeature struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

// ReadJSON reads an array of objects with the keys x, y, width, height and text.
func ReadJSON(r io.Reader) ([]labelplace.Feature, error) {
	var items []jsonFeature
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	features := make([]labelplace.Feature, len(items))
	for i, item := range items {
		features[i] = labelplace.Feature{
			Pos:   canvas.Point{X: item.X, Y: item.Y},
			W:     item.Width,
			H:     item.Height,
			Text:  item.Text,
			Index: i,
		}
	}
	return features, nil
}

type num float64

func (f num) String() string {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return "null"
	}
	s := fmt.Sprintf("%.*g", Precision, f)
	if num(math.MaxInt32) < f || f < num(math.MinInt32) {
		if i := strings.IndexAny(s, ".eE"); i == -1 {
			s += ".0"
		}
	}
	b := minify.Number([]byte(s), Precision)
	// JSON requires a leading zero
	if 0 < len(b) && b[0] == '.' {
		return "0" + string(b)
	} else if 1 < len(b) && b[0] == '-' && b[1] == '.' {
		return "-0" + string(b[1:])
	}
	return string(b)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// WriteJSON writes the placements and statistics of a result.
func WriteJSON(w io.Writer, res *labelplace.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("{\"placements\":[")
	for i, p := range res.Placements {
		if i != 0 {
			bw.WriteString(",")
		}
		fmt.Fprintf(bw, "\n{\"index\":%d,\"text\":%s,\"x\":%v,\"y\":%v,\"placed\":%v", p.Index, quote(p.Text), num(p.Pos.X), num(p.Pos.Y), p.Placed)
		if p.Placed {
			fmt.Fprintf(bw, ",\"offset\":[%v,%v],\"rect\":[%v,%v,%v,%v]", num(p.Offset.X), num(p.Offset.Y), num(p.Rect.X0), num(p.Rect.Y0), num(p.Rect.X1), num(p.Rect.Y1))
		}
		bw.WriteString("}")
	}

	s := res.Stats
	fmt.Fprintf(bw, "\n],\"stats\":{\"iterations\":%d,\"stages\":%d,\"accepted\":%d,\"rejected\":%d,\"deactivated\":%d", s.Iterations, s.Stages, s.Accepted, s.Rejected, s.Deactivated)
	fmt.Fprintf(bw, ",\"initial_overlaps\":%d,\"start_overlaps\":%d,\"final_overlaps\":%d,\"energy\":%v,\"temperature\":%v}}\n", s.InitialOverlaps, s.StartOverlaps, s.FinalOverlaps, num(s.Energy), num(s.Temperature))
	return bw.Flush()
}
