package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/topoviz/pkg/cache"
	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	topoio "github.com/matzehuels/topoviz/pkg/io"
	"github.com/matzehuels/topoviz/pkg/layout"
	"github.com/matzehuels/topoviz/pkg/observability"
	"github.com/matzehuels/topoviz/pkg/render"
	"github.com/matzehuels/topoviz/pkg/render/sink"
	"github.com/matzehuels/topoviz/pkg/spantree"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Runner executes pipeline runs. It holds no per-run state, so one Runner
// may serve several runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses [log.Default].
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs load → classify → layout → render → save.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	format, err := sink.FormatFromPath(opts.Output)
	if err != nil {
		return nil, err
	}
	result.Format = format

	// Stage 1: Load
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	loadStart := time.Now()
	doc, err := topoio.ImportJSON(opts.Input, opts.Registry)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Input, 0, 0, result.Stats.LoadTime, err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, opts.Input, doc.NodeCount(), doc.EdgeCount(), result.Stats.LoadTime, nil)
	result.Document = doc
	result.Stats.NodeCount = doc.NodeCount()
	result.Stats.EdgeCount = doc.EdgeCount()

	logger.Info("loaded document",
		"nodes", doc.NodeCount(),
		"edges", doc.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Classify
	buckets, err := classify(doc, opts.Mode)
	if err != nil {
		return nil, err
	}
	result.Buckets = buckets
	for _, id := range render.DrawOrder(doc.Registry(), opts.PreferLowerWeightEdge) {
		c, _ := doc.Registry().Class(id)
		logger.Debug("classified edges", "class", c.Name, "weight", c.Weight, "edges", len(buckets[id]))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Layout
	store := cache.NewStore(opts.PositionFile)
	seeds, err := store.Load()
	if err != nil {
		if !apperrors.Recoverable(err) {
			return nil, err
		}
		result.CacheInfo.LoadErr = err
		logger.Debug("position cache unavailable", "path", opts.PositionFile, "reason", err)
	}
	if opts.PositionFile != "" {
		observability.Cache().OnCacheLoad(ctx, opts.PositionFile, len(seeds), err)
	}
	result.CacheInfo.Loaded = countKnown(doc, seeds)

	hooks.OnLayoutStart(ctx, doc.NodeCount(), result.CacheInfo.Loaded)
	layoutStart := time.Now()
	result.Positions = layout.Compute(doc, seeds, opts.LayoutOptions())
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, result.Stats.LayoutTime)

	logger.Info("computed layout",
		"cached", result.CacheInfo.Loaded,
		"pinned", !opts.Bounce,
		"duration", result.Stats.LayoutTime)

	if opts.SpanningTree {
		result.Tree = spantree.Minimum(doc)
		logger.Debug("spanning tree", "edges", len(result.Tree), "weight", spantree.Weight(result.Tree))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	hooks.OnRenderStart(ctx, string(format))
	renderStart := time.Now()
	data, err := r.render(ctx, result, opts, format)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, string(format), len(data), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Bytes = len(data)

	// Stage 5: Save
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "write %s", opts.Output)
	}
	logger.Info("rendered output",
		"format", format,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	if err := store.Save(result.Positions); err != nil {
		if !apperrors.Recoverable(err) {
			return nil, err
		}
		result.CacheInfo.SaveErr = err
		logger.Warn("could not save position cache", "path", opts.PositionFile, "err", err)
	}
	if opts.PositionFile != "" {
		observability.Cache().OnCacheSave(ctx, opts.PositionFile, len(result.Positions), result.CacheInfo.SaveErr)
	}

	return result, nil
}

// render builds the scene for result and encodes it.
func (r *Runner) render(ctx context.Context, result *Result, opts Options, format sink.Format) ([]byte, error) {
	scene, err := render.BuildScene(result.Document, result.Buckets, result.Positions, opts.SceneOptions(result.Tree))
	if err != nil {
		return nil, err
	}
	result.Scene = scene
	return sink.Render(ctx, scene, format, opts.SinkOptions()...)
}

// Validation is the outcome of [Runner.Validate].
type Validation struct {
	Document *topology.Document
	Buckets  render.Buckets
}

// Validate loads and classifies the document at path without laying it out.
func (r *Runner) Validate(ctx context.Context, path string, opts Options) (*Validation, error) {
	r.applyLogger(&opts)
	if opts.Registry.Len() == 0 {
		opts.Registry = topology.DefaultRegistry()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := topoio.ImportJSON(path, opts.Registry)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if mode == "" {
		mode = render.ModeDirected
	}
	buckets, err := classify(doc, mode)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("validated document", "path", path, "nodes", doc.NodeCount(), "edges", doc.EdgeCount())
	return &Validation{Document: doc, Buckets: buckets}, nil
}

func classify(doc *topology.Document, mode render.Mode) (render.Buckets, error) {
	policy, err := render.PolicyFor(mode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "classify edges")
	}
	return render.Classify(doc, policy), nil
}

// countKnown counts cached positions that belong to doc.
func countKnown(doc *topology.Document, seeds cache.Positions) int {
	var n int
	for name := range seeds {
		if _, ok := doc.Node(name); ok {
			n++
		}
	}
	return n
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
