package format

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/paulmach/osm"

	"github.com/tdewolff/labelplace"
)

// ReadOSM reads an OpenStreetMap XML file and returns a feature for every node with a name tag.
func ReadOSM(r io.Reader, opts Options) ([]labelplace.Feature, error) {
	o := &osm.OSM{}
	if err := xml.NewDecoder(r).Decode(o); err != nil {
		return nil, fmt.Errorf("osm: %w", err)
	}

	project := projection(opts)
	features := []labelplace.Feature{}
	for _, node := range o.Nodes {
		name := node.Tags.Find("name")
		if name == "" {
			continue
		}
		features = append(features, labelplace.Feature{
			Pos:   project(node.Lon, node.Lat),
			Text:  name,
			Index: len(features),
		})
	}
	Scale(features, opts.Scale)
	return features, nil
}
