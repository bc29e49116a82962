package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/config"
	plotio "github.com/matzehuels/plotkit/pkg/io"
	"github.com/matzehuels/plotkit/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [plot-id...]",
		Short: "Export plots with their observations to a JSON bundle",
		Long: `Export plots with their observations and progress to a JSON bundle.

Without plot ids every plot in the store is exported. The bundle is written
to stdout unless --output is given.`,
		ValidArgsFunction: c.completePlotIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, true, func(r *pipeline.Runner, _ config.Config) error {
				b, err := plotio.Export(ctx, r.Store, args...)
				if err != nil {
					return err
				}
				if output == "" {
					return plotio.WriteJSON(b, cmd.OutOrStdout())
				}
				if err := plotio.WriteFile(b, output); err != nil {
					return err
				}
				printSuccess("Exported %d plots", len(b.Plots))
				printFile(output)
				printDetail("%d trees · %d vegetation records · %d progress records", len(b.Trees), len(b.Vegetation), len(b.Progress))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "import <bundle.json|->",
		Short: "Import a JSON bundle into the store",
		Long: `Import a JSON bundle into the store.

Modes:
  create     fail without writing when any plot already exists (default)
  overwrite  replace existing plots and everything recorded against them
  clone      store the plots under new ids; sampling units are remapped
             through the committed layouts by structural path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := plotio.ParseMode(mode)
			if err != nil {
				return err
			}
			var b *plotio.Bundle
			if args[0] == "-" {
				b, err = plotio.ReadJSON(cmd.InOrStdin())
			} else {
				b, err = plotio.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return c.withRunner(ctx, true, func(r *pipeline.Runner, _ config.Config) error {
				prog := newProgress(c.Logger)
				res, err := plotio.Import(ctx, r.Store, r.Registry, b, m)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Imported %d plots", res.Plots))

				printSuccess("Imported %d plots (%s)", res.Plots, m)
				printDetail("%d trees · %d vegetation records · %d progress records", res.Trees, res.Vegetation, res.Progress)
				if m == plotio.ModeClone {
					for from, to := range res.PlotIDs {
						printDetail("%s → %s", from, to)
					}
				}
				if res.Unmapped > 0 {
					printWarning("%d records kept sampling units missing from the source layout", res.Unmapped)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(plotio.ModeCreate), "create, overwrite or clone")

	return cmd
}
