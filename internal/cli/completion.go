package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/config"
	"github.com/matzehuels/plotkit/pkg/pipeline"
)

// completionCommand creates the completion command for shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plotkit.

  bash:        source <(plotkit completion bash)
  zsh:         plotkit completion zsh > "${fpath[1]}/_plotkit"
  fish:        plotkit completion fish | source
  powershell:  plotkit completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completePlotIDs suggests plot ids, with names as descriptions, from the
// configured store.
func (c *CLI) completePlotIDs(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var ids []string
	_ = c.withRunner(ctx, true, func(r *pipeline.Runner, _ config.Config) error {
		plots, err := r.Store.ListPlots(ctx)
		if err != nil {
			return err
		}
		for _, p := range plots {
			ids = append(ids, p.ID+"\t"+p.Name)
		}
		return nil
	})
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeFirstPlotID completes only the first positional argument.
func (c *CLI) completeFirstPlotID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.completePlotIDs(cmd, args, toComplete)
}
