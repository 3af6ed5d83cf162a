// Package pipeline runs a topoviz render end to end.
//
// A run has five stages, executed in order on the calling goroutine:
//
//  1. Load: decode and validate the JSON document
//  2. Classify: bucket edges by device class under the chosen [render.Mode]
//  3. Layout: position nodes, warm-started from the position cache
//  4. Render: build a [render.Scene] and encode it for the output extension
//  5. Save: write the image, then persist positions (best effort)
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts, err := pipeline.OptionsFromConfig(cfg)
//	opts.Input, opts.Output = "net.json", "net.svg"
//	result, err := runner.Execute(ctx, opts)
//
// Document, configuration and format problems abort the run before anything
// is written. Position cache problems never do: a failed load falls back to
// a fresh layout and a failed save is only logged.
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/config"
	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/layout"
	"github.com/matzehuels/topoviz/pkg/render"
	"github.com/matzehuels/topoviz/pkg/render/sink"
	"github.com/matzehuels/topoviz/pkg/spantree"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Options contains everything a run needs.
type Options struct {
	Input        string // JSON document
	Output       string // image path; the extension selects the format
	PositionFile string // optional position cache

	Registry              topology.Registry
	Mode                  render.Mode
	PreferLowerWeightEdge bool

	// Bounce lets cached nodes move during layout. When false they stay
	// exactly where the cache put them.
	Bounce       bool
	SpanningTree bool

	// WeightedLines gives each device class a stroke width that shrinks
	// as its weight grows. Labels draws node and edge labels.
	WeightedLines bool
	Labels        bool

	Seed       uint64
	Iterations int
	Width      int
	Height     int
	NodeRadius float64

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// DefaultOptions returns options matching [config.Defaults].
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Defaults())
	return opts
}

// OptionsFromConfig maps a validated configuration onto run options.
// Paths are left empty.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return Options{}, err
	}
	mode, err := cfg.ModeValue()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Registry:              reg,
		Mode:                  mode,
		PreferLowerWeightEdge: cfg.PreferLowerWeightEdge,
		Bounce:                cfg.Bounce,
		SpanningTree:          cfg.SpanningTree,
		WeightedLines:         cfg.WeightedLines,
		Labels:                cfg.Labels,
		Seed:                  cfg.Seed,
		Iterations:            cfg.Iterations,
		Width:                 cfg.Width,
		Height:                cfg.Height,
		NodeRadius:            cfg.NodeRadius,
	}, nil
}

// Validate checks the fields every run needs and fills in defaults.
func (o *Options) Validate() error {
	if o.Input == "" {
		return apperrors.New(apperrors.ErrCodeUsage, "input document is required")
	}
	if o.Output == "" {
		return apperrors.New(apperrors.ErrCodeUsage, "output image is required")
	}
	if o.Registry.Len() == 0 {
		o.Registry = topology.DefaultRegistry()
	}
	if o.Mode == "" {
		o.Mode = render.ModeDirected
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutOptions returns the layout engine settings for the run.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Seed:       o.Seed,
		Iterations: o.Iterations,
		Pin:        !o.Bounce,
	}
}

// SceneOptions returns the scene geometry for the run.
func (o *Options) SceneOptions(tree []spantree.Pair) render.SceneOptions {
	return render.SceneOptions{
		Width:                 o.Width,
		Height:                o.Height,
		NodeRadius:            o.NodeRadius,
		PreferLowerWeightEdge: o.PreferLowerWeightEdge,
		Undirected:            o.Mode == render.ModeUndirected,
		WeightedLines:         o.WeightedLines,
		Tree:                  tree,
	}
}

// SinkOptions returns the encoder options for the run. The document's base
// name becomes the image title.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithTitle(strings.TrimSuffix(filepath.Base(o.Input), filepath.Ext(o.Input)))}
	if !o.Labels {
		opts = append(opts, sink.WithoutLabels())
	}
	return opts
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in log lines.
	RunID string

	Document  *topology.Document
	Buckets   render.Buckets
	Positions cache.Positions
	Tree      []spantree.Pair
	Scene     *render.Scene

	// Format is the encoding written to Options.Output.
	Format sink.Format
	Bytes  int

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo describes what happened to the position cache.
type CacheInfo struct {
	Loaded  int   // positions read from the cache
	LoadErr error // why the cache could not be read, if it could not
	SaveErr error // why the cache could not be written, if it could not
}

// Hit reports whether any cached position was used.
func (c CacheInfo) Hit() bool { return c.Loaded > 0 }
