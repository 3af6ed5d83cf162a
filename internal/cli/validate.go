package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	topoio "github.com/matzehuels/topoviz/pkg/io"
	"github.com/matzehuels/topoviz/pkg/pipeline"
	"github.com/matzehuels/topoviz/pkg/render"
)

// validateCommand loads a document without rendering it.
func (c *CLI) validateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate <input.json>",
		Short: "Check a topology document and show how its edges are classified",
		Long: `Validate loads and checks a topology document, then prints the node and edge
counts and the number of edges classified under each device class, in paint
order. With -o the document is also written back as canonical JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := pipeline.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}

			v, err := c.newRunner(cmd).Validate(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			printSuccess(c.out, "%s is valid", args[0])
			printKeyValue(c.out, "mode", string(opts.Mode))
			printKeyValue(c.out, "nodes", StyleNumber.Render(fmt.Sprint(v.Document.NodeCount())))
			printKeyValue(c.out, "edges", StyleNumber.Render(fmt.Sprint(v.Document.EdgeCount())))

			reg := v.Document.Registry()
			for _, id := range render.DrawOrder(reg, opts.PreferLowerWeightEdge) {
				class, _ := reg.Class(id)
				printKeyValue(c.out, class.Name, fmt.Sprintf("%d %s", len(v.Buckets[id]),
					StyleDim.Render(fmt.Sprintf("(weight %d, %s)", class.Weight, class.Color))))
			}

			if output != "" {
				if err := topoio.ExportJSON(v.Document, output); err != nil {
					return err
				}
				printFile(c.out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the canonical document to this file")
	return cmd
}
