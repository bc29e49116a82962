package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
)

// blueprintCommand creates the blueprint catalog command.
func (c *CLI) blueprintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blueprint",
		Aliases: []string{"bp"},
		Short:   "Browse the sampling-plot blueprint catalog",
	}

	cmd.AddCommand(c.blueprintListCommand())
	cmd.AddCommand(c.blueprintShowCommand())

	return cmd
}

// blueprintListCommand creates the "blueprint list" subcommand.
func (c *CLI) blueprintListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			rows := blueprintRows(reg.List())
			printTable([]string{"ID", "Version", "Name", "Root", "Units"}, rows, 1, 4)
			return nil
		},
	}
}

// blueprintShowCommand creates the "blueprint show" subcommand.
func (c *CLI) blueprintShowCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show <id> [version]",
		Short: "Show one blueprint (latest version by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			bp, err := lookupBlueprint(reg, args)
			if err != nil {
				return err
			}
			if asTOML {
				return blueprint.Encode(cmd.OutOrStdout(), []blueprint.Blueprint{bp})
			}

			printKeyValue("ID", bp.ID)
			printKeyValue("Version", strconv.Itoa(bp.Version))
			printKeyValue("Name", bp.Name)
			if bp.Description != "" {
				printKeyValue("Description", bp.Description)
			}
			printKeyValue("Root", describeShape(bp.Root.Shape))
			printKeyValue("Versions", fmt.Sprint(reg.Versions(bp.ID)))
			if root, err := layout.Preview(bp, layout.Overrides{}); err == nil {
				printKeyValue("Units", strconv.Itoa(len(root.SamplingUnits())))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print the blueprint as a TOML catalog entry")

	return cmd
}

// registry loads the configuration and returns the blueprint registry.
func (c *CLI) registry() (*blueprint.Registry, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return newRegistry(cfg)
}

// lookupBlueprint resolves "<id> [version]" arguments.
func lookupBlueprint(reg *blueprint.Registry, args []string) (blueprint.Blueprint, error) {
	if len(args) < 2 || args[1] == "latest" {
		return reg.Latest(args[0])
	}
	v, err := strconv.Atoi(args[1])
	if err != nil || v < 1 {
		return blueprint.Blueprint{}, perrors.New(perrors.ErrCodeInvalidInput, "invalid blueprint version %q", args[1])
	}
	return reg.Get(args[0], v)
}

func blueprintRows(bps []blueprint.Blueprint) [][]string {
	rows := make([][]string, 0, len(bps))
	for _, bp := range bps {
		units := "-"
		if root, err := layout.Preview(bp, layout.Overrides{}); err == nil {
			units = strconv.Itoa(len(root.SamplingUnits()))
		}
		rows = append(rows, []string{bp.ID, strconv.Itoa(bp.Version), bp.Name, describeShape(bp.Root.Shape), units})
	}
	return rows
}

// describeShape formats a shape for display, e.g. "20 x 20 m rectangle".
func describeShape(s blueprint.Shape) string {
	switch s.Kind {
	case blueprint.ShapeRectangle:
		return fmt.Sprintf("%g x %g m rectangle", s.Width, s.Length)
	case blueprint.ShapeLine:
		return fmt.Sprintf("%g x %g m line", s.Length, s.Width)
	case blueprint.ShapeCircle:
		return fmt.Sprintf("r %g m circle", s.Radius)
	case blueprint.ShapePoint:
		return fmt.Sprintf("r %g m point", s.Radius)
	default:
		return string(s.Kind)
	}
}
