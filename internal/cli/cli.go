// Package cli implements the topoviz command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/buildinfo"
	"github.com/matzehuels/topoviz/pkg/config"
	"github.com/matzehuels/topoviz/pkg/pipeline"
	"github.com/matzehuels/topoviz/pkg/render"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out io.Writer
}

// New creates a CLI that logs to w at level. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command. The root command itself renders
// a document; validate, watch, config and completion are subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "topoviz <input.json> <output_image> [position_file]",
		Short: "Topoviz draws network topology diagrams",
		Long: `Topoviz reads a network topology document, lays it out with a force-directed
model and writes a diagram whose edges are coloured and layered by device class.

The output format follows the output file extension (.svg, .png, .jpg, .pdf,
.dot). When a position file is given, node positions are loaded from it before
layout and written back afterwards.`,
		Version:       buildinfo.Get().Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: c.runRender,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this file after rendering")
	addConfigFlags(root)

	watch := c.watchCommand()
	root.AddCommand(c.validateCommand())
	root.AddCommand(watch)
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root, root, watch)

	return root
}

// addConfigFlags registers the flags that override configuration keys.
// Flag names match config keys with "-" in place of "_".
func addConfigFlags(cmd *cobra.Command) {
	d := config.Defaults()
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default ./"+config.DefaultFile+" if present)")
	f.String("mode", d.Mode, "edge classification: "+string(render.ModeDirected)+" or "+string(render.ModeUndirected))
	f.Bool("prefer-lower-weight-edge", d.PreferLowerWeightEdge, "paint lower-weight device classes on top")
	f.Bool("bounce", d.Bounce, "let cached node positions move during layout")
	f.Bool("spanning-tree", d.SpanningTree, "overlay a minimum spanning tree")
	f.Bool("weighted-lines", d.WeightedLines, "draw lower-weight device classes with thicker lines")
	f.Bool("labels", d.Labels, "draw node and edge labels")
	f.Uint64("seed", d.Seed, "layout random seed")
	f.Int("iterations", d.Iterations, "layout iterations")
	f.Int("width", d.Width, "canvas width in pixels")
	f.Int("height", d.Height, "canvas height in pixels")
	f.Float64("node-radius", d.NodeRadius, "node radius in pixels")
}

// loadConfig resolves the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(cmd.Flags(), path)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command) *pipeline.Runner {
	return pipeline.NewRunner(loggerFromContext(cmd.Context()))
}
