package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/config"
	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/watcher"
)

// watchCommand re-renders whenever the input document or config file changes.
func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <input.json> <output_image> [position_file]",
		Short: "Render, then re-render whenever the input changes",
		Long: `Watch renders like the root command, then keeps running and renders again
each time the input document or the config file is saved. Invalid documents
are reported and skipped; the previous output stays in place. Stop with Ctrl-C.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				if _, err := os.Stat(config.DefaultFile); err == nil {
					cfgPath = config.DefaultFile
				}
			}

			fw, err := watcher.New(logger, args[0], cfgPath)
			if err != nil {
				return err
			}
			go fw.Run(cmd.Context())

			render := func() error {
				err := withMetrics(cmd, func() error {
					_, err := c.renderOnce(cmd, args)
					return err
				})
				if err != nil && apperrors.Retryable(err) {
					printWarning(c.out, "%s", apperrors.UserMessage(err))
					return nil
				}
				return err
			}
			if err := render(); err != nil {
				return err
			}

			logger.Info("watching for changes", "input", args[0], "config", cfgPath)
			for ev := range fw.Events() {
				logger.Debug("change detected", "paths", ev.Paths)
				if err := render(); err != nil {
					return err
				}
			}
			return cmd.Context().Err()
		},
	}
}
