package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/tdewolff/argp"
	"github.com/tdewolff/canvas"

	"github.com/tdewolff/labelplace"
	"github.com/tdewolff/labelplace/config"
	"github.com/tdewolff/labelplace/format"
	"github.com/tdewolff/labelplace/internal/log"
	"github.com/tdewolff/labelplace/preview"
)

type Root struct{}

type Place struct {
	Config     string  `short:"c" desc:"Configuration file"`
	Format     string  `short:"f" desc:"Input format: json, geojson, osm or csv (default: from extension)"`
	Projection int     `default:"3857" desc:"EPSG code to project longitude/latitude input to, 0 keeps degrees"`
	Scale      float64 `default:"1" desc:"Factor applied to all positions after projection"`
	Seed       uint64  `short:"s" desc:"Random seed (default: from configuration)"`
	Output     string  `short:"o" default:"-" desc:"Output JSON file, - for stdout"`
	Preview    string  `short:"p" desc:"Preview image (.svg, .pdf, .png, ...)"`
	Quiet      bool    `short:"q" desc:"Hide progress"`
	Input      string  `index:"0" desc:"Input file, - for stdin"`
}

type Demo struct {
	Config  string  `short:"c" desc:"Configuration file"`
	N       int     `short:"n" default:"100" desc:"Number of features"`
	Spread  float64 `default:"40" desc:"Standard deviation of the anchor cluster"`
	Seed    uint64  `short:"s" desc:"Random seed (default: from configuration)"`
	Output  string  `short:"o" desc:"Output JSON file"`
	Preview string  `short:"p" default:"demo.svg" desc:"Preview image (.svg, .pdf, .png, ...)"`
	Quiet   bool    `short:"q" desc:"Hide progress"`
}

type Config struct {
	Config string `short:"c" desc:"Configuration file"`
}

func main() {
	root := argp.NewCmd(&Root{}, "Force-directed label placement")
	root.AddCmd(&Place{}, "place", "Place the labels of a feature file")
	root.AddCmd(&Demo{}, "demo", "Place the labels of a random cluster")
	root.AddCmd(&Config{}, "config", "Print the effective configuration")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Root) Run() error {
	return argp.ShowUsage
}

func (cmd *Config) Run() error {
	return printConfig(os.Stdout, cmd.Config)
}

// printConfig writes the configuration after applying the file and environment overrides.
func printConfig(w io.Writer, filename string) error {
	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}
	return config.Encode(w, cfg)
}

// setup loads the configuration and creates the logger.
func setup(filename string, seed uint64) (config.Config, *log.Logger, error) {
	cfg, err := config.Load(filename)
	if err != nil {
		return cfg, nil, err
	}
	if seed != 0 {
		cfg.Placement.Seed = seed
	}
	return cfg, log.New(os.Stderr, cfg.LogOptions()), nil
}

func previewOptions(cfg config.Config, features []labelplace.Feature) preview.Options {
	x0, y0, x1, y1 := format.Bounds(features)
	return preview.Options{
		Scale:      preview.Fit(x0, y0, x1, y1, cfg.Preview.Width),
		FontSize:   cfg.Preview.FontSize,
		Padding:    cfg.Preview.Padding,
		Margin:     cfg.Preview.Margin,
		Resolution: cfg.Preview.Resolution,
		YDown:      cfg.Preview.YDown,
		Unplaced:   cfg.Preview.Unplaced,
	}
}

func (cmd *Place) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}

	cfg, logger, err := setup(cmd.Config, cmd.Seed)
	if err != nil {
		return err
	}
	defer logger.Close()

	var features []labelplace.Feature
	opts := format.Options{Projection: cmd.Projection, Scale: cmd.Scale}
	if cmd.Input == "-" {
		if cmd.Format == "" {
			fmt.Println("ERROR: must specify the input format when reading from stdin")
			return argp.ShowUsage
		}
		features, err = format.Read(os.Stdin, cmd.Format, opts)
	} else if cmd.Format != "" {
		var f *os.File
		if f, err = os.Open(cmd.Input); err == nil {
			features, err = format.Read(f, cmd.Format, opts)
			f.Close()
		}
	} else {
		features, err = format.Open(cmd.Input, opts)
	}
	if err != nil {
		return err
	}
	logger.Info("read features", slog.String("input", cmd.Input), slog.Int("features", len(features)))

	output := cmd.Output
	if output == "" {
		output = "-"
	}
	return run(cfg, logger, features, output, cmd.Preview, cmd.Quiet)
}

func (cmd *Demo) Run() error {
	if cmd.N < 0 {
		fmt.Println("ERROR: number of features must not be negative")
		return argp.ShowUsage
	}

	cfg, logger, err := setup(cmd.Config, cmd.Seed)
	if err != nil {
		return err
	}
	defer logger.Close()

	features := cluster(cfg.Placement.Seed, cmd.N, cmd.Spread)
	return run(cfg, logger, features, cmd.Output, cmd.Preview, cmd.Quiet)
}

// cluster returns n features normally distributed around the origin, in millimetres.
func cluster(seed uint64, n int, spread float64) []labelplace.Feature {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	features := make([]labelplace.Feature, n)
	for i := range features {
		features[i] = labelplace.Feature{
			Pos:   canvas.Point{X: rng.NormFloat64() * spread, Y: rng.NormFloat64() * spread},
			Text:  fmt.Sprintf("Label %d", i),
			Index: i,
		}
	}
	return features
}

// run measures label text, places the labels and writes the results. An output of - writes to stdout and an empty output or image is skipped.
func run(cfg config.Config, logger *log.Logger, features []labelplace.Feature, output, image string, quiet bool) error {
	popts := previewOptions(cfg, features)
	m, err := preview.NewMeasurer(popts)
	if err != nil {
		return err
	}
	if n := format.Measure(features, m); 0 < n {
		logger.Debug("measured labels", slog.Int("labels", n), slog.Float64("scale", popts.Scale))
	}

	opts := cfg.Options()
	opts.Logger = logger.Logger
	if !quiet {
		bar := newProgress(os.Stderr)
		defer bar.Finish()
		opts.OnStage = bar.Stage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, placeErr := labelplace.PlaceContext(ctx, features, opts)
	if res == nil {
		return placeErr
	} else if errors.Is(placeErr, context.Canceled) {
		logger.Warn("interrupted, writing partial result")
	}

	s := res.Stats
	logger.Info("placed labels",
		slog.Int("labels", len(res.Placements)),
		slog.Int("unplaced", len(res.Unplaced())),
		slog.Int("iterations", s.Iterations),
		slog.Int("stages", s.Stages),
		slog.Int("initial_overlaps", s.InitialOverlaps),
		slog.Int("final_overlaps", s.FinalOverlaps))

	if output != "" {
		if err := writeResult(output, res); err != nil {
			return err
		}
	}
	if image != "" {
		if err := preview.Write(image, res.Solution, popts); err != nil {
			return err
		}
		logger.Info("wrote preview", slog.String("file", image))
	}
	return placeErr
}

func writeResult(filename string, res *labelplace.Result) error {
	if filename == "-" {
		return format.WriteJSON(os.Stdout, res)
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := format.WriteJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
