package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/observability"
	"github.com/matzehuels/topoviz/pkg/pipeline"
)

// runRender is the root command: topoviz <input.json> <output_image> [position_file].
func (c *CLI) runRender(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) < 2:
		return cmd.Usage()
	case len(args) > 3:
		return apperrors.New(apperrors.ErrCodeUsage, "expected at most 3 arguments, got %d", len(args))
	}
	return withMetrics(cmd, func() error {
		_, err := c.renderOnce(cmd, args)
		return err
	})
}

// renderOnce runs the pipeline for positional args and reports the result.
func (c *CLI) renderOnce(cmd *cobra.Command, args []string) (*pipeline.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Input = args[0]
	opts.Output = args[1]
	if len(args) == 3 {
		opts.PositionFile = args[2]
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	result, err := c.newRunner(cmd).Execute(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	prog.done("render complete", "run", result.RunID)

	if result.CacheInfo.SaveErr != nil {
		printWarning(c.out, "position cache not saved: %s", apperrors.UserMessage(result.CacheInfo.SaveErr))
	}
	printSuccess(c.out, "Rendered %s", result.Format)
	printStats(c.out, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.Loaded)
	printFile(c.out, opts.Output)
	if opts.PositionFile != "" && result.CacheInfo.SaveErr == nil {
		printFile(c.out, opts.PositionFile)
	}
	return result, nil
}

// withMetrics records Prometheus metrics while fn runs when --metrics-file is
// set, and writes them afterwards even if fn failed.
func withMetrics(cmd *cobra.Command, fn func() error) error {
	path, _ := cmd.Flags().GetString("metrics-file")
	if path == "" {
		return fn()
	}

	hooks := observability.NewPrometheusHooks()
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	err := fn()
	if werr := hooks.WriteTextfile(path); werr != nil && err == nil {
		return fmt.Errorf("write metrics %s: %w", path, werr)
	}
	return err
}
