package format

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/parse/v2/strconv"

	"github.com/tdewolff/labelplace"
)

// ReadCSV reads rows of x,y,width,height,text. The size and text columns are optional and an initial header row is skipped.
func ReadCSV(r io.Reader) ([]labelplace.Feature, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	features := []labelplace.Feature{}
	for record := 0; ; record++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if record == 0 && 0 < len(row) && strings.EqualFold(strings.TrimSpace(row[0]), "x") {
			continue
		}
		if len(row) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv: line %d: expected at least x and y", line)
		}

		var vals [4]float64
		for i := 0; i < len(vals) && i < len(row); i++ {
			field := strings.TrimSpace(row[i])
			if field == "" && 2 <= i {
				continue
			}
			f, n := strconv.ParseFloat([]byte(field))
			if n == 0 || n != len(field) {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("csv: line %d: bad number %q", line, field)
			}
			vals[i] = f
		}

		text := ""
		if 5 <= len(row) {
			text = strings.Join(row[4:], ",")
		}
		features = append(features, labelplace.Feature{
			Pos:   canvas.Point{X: vals[0], Y: vals[1]},
			W:     vals[2],
			H:     vals[3],
			Text:  text,
			Index: len(features),
		})
	}
	return features, nil
}
