package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/render"
	"github.com/matzehuels/topoviz/pkg/render/sink"
)

// completionCommand prints a shell completion script for topoviz.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for topoviz.

Completions know which files each argument takes: the document completes
*.json files, the output image completes supported image extensions, and
--mode completes the classification modes.

  $ source <(topoviz completion bash)
  $ topoviz completion zsh > "${fpath[1]}/_topoviz"
  $ topoviz completion fish | source
  PS> topoviz completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(c.out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}
}

// registerCompletions wires argument and flag completion for the render
// commands.
func registerCompletions(root *cobra.Command, renderCmds ...*cobra.Command) {
	for _, cmd := range renderCmds {
		cmd.ValidArgsFunction = completeRenderArgs
	}
	_ = root.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(render.ModeDirected) + "\tbucket edges by destination class",
			string(render.ModeUndirected) + "\tbucket edges by heavier endpoint class",
		}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// completeRenderArgs completes <input.json> <output_image> [position_file].
func completeRenderArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		exts := make([]string, 0, len(sink.Extensions()))
		for _, ext := range sink.Extensions() {
			exts = append(exts, strings.TrimPrefix(ext, "."))
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	case 2:
		return nil, cobra.ShellCompDirectiveDefault
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
