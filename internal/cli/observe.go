package cli

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/config"
	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/pipeline"
)

// observeCommand creates the observation intake command.
func (c *CLI) observeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observe",
		Short: "Record tree and vegetation observations",
		Long: `Record tree and vegetation observations against a sampling unit.

The unit may be given by id, structural path (e.g. root/r0c1) or label.
Species names may contain spaces; all arguments after the unit form the
name. Use --unknown for individuals that could not be identified.`,
	}

	cmd.AddCommand(c.observeTreeCommand())
	cmd.AddCommand(c.observeVegCommand())

	return cmd
}

func (c *CLI) observeTreeCommand() *cobra.Command {
	var (
		gbh        string
		t          ecology.TreeObservation
		confidence string
		condition  string
	)

	cmd := &cobra.Command{
		Use:               "tree <plot-id> <unit> [species...]",
		Short:             "Record a tree with its stem girths",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeFirstPlotID,
		RunE: func(cmd *cobra.Command, args []string) error {
			stems, err := parseFloats(gbh)
			if err != nil {
				return err
			}
			t.StemGBH = stems
			t.SpeciesName = strings.Join(args[2:], " ")
			if t.Confidence, err = parseEnum(confidence, "confidence", ecology.ConfidenceHigh, ecology.ConfidenceMedium, ecology.ConfidenceLow); err != nil {
				return err
			}
			if t.Condition, err = parseEnum(condition, "condition", ecology.ConditionAlive, ecology.ConditionDamaged, ecology.ConditionDead); err != nil {
				return err
			}

			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				unit, err := c.observationUnit(ctx, r, args[0], args[1])
				if err != nil {
					return err
				}
				t.ID = uuid.NewString()
				t.PlotID = args[0]
				t.SamplingUnitID = unit.ID
				t.RecordedAt = time.Now().UTC()
				if err := r.Store.PutTree(ctx, t); err != nil {
					return err
				}
				printSuccess("Recorded %s in %s", speciesLabel(t.Known(), t.SpeciesName), unit.Label)
				printDetail("GBH %.1f cm · basal area %.4f m²", t.GBH(), t.BasalArea())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&gbh, "gbh", "", "stem girths at breast height in cm, comma-separated")
	cmd.Flags().Float64Var(&t.HeightM, "height", 0, "tree height in metres")
	cmd.Flags().BoolVar(&t.Unknown, "unknown", false, "species could not be identified")
	cmd.Flags().StringVar(&confidence, "confidence", "", "identification confidence: high, medium, low")
	cmd.Flags().StringVar(&condition, "condition", "", "tree condition: alive, damaged, dead")
	cmd.Flags().StringVar(&t.Phenology, "phenology", "", "phenology note (e.g. flowering)")

	return cmd
}

func (c *CLI) observeVegCommand() *cobra.Command {
	var (
		v          ecology.VegetationObservation
		confidence string
		layer      string
	)

	cmd := &cobra.Command{
		Use:               "veg <plot-id> <unit> [species...]",
		Aliases:           []string{"vegetation"},
		Short:             "Record ground vegetation cover and abundance",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeFirstPlotID,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			v.SpeciesName = strings.Join(args[2:], " ")
			if v.Confidence, err = parseEnum(confidence, "confidence", ecology.ConfidenceHigh, ecology.ConfidenceMedium, ecology.ConfidenceLow); err != nil {
				return err
			}
			if v.Layer, err = parseEnum(layer, "layer", ecology.LayerShrub, ecology.LayerHerb, ecology.LayerGround); err != nil {
				return err
			}

			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				unit, err := c.observationUnit(ctx, r, args[0], args[1])
				if err != nil {
					return err
				}
				v.ID = uuid.NewString()
				v.PlotID = args[0]
				v.SamplingUnitID = unit.ID
				v.RecordedAt = time.Now().UTC()
				if err := r.Store.PutVegetation(ctx, v); err != nil {
					return err
				}
				printSuccess("Recorded %s in %s", speciesLabel(v.Known(), v.SpeciesName), unit.Label)
				printDetail("cover %.0f%% · abundance %d", v.CoverPercent, v.Abundance)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&v.CoverPercent, "cover", 0, "cover percentage (0-100)")
	cmd.Flags().IntVar(&v.Abundance, "abundance", 1, "number of individuals")
	cmd.Flags().BoolVar(&v.Unknown, "unknown", false, "species could not be identified")
	cmd.Flags().StringVar(&confidence, "confidence", "", "identification confidence: high, medium, low")
	cmd.Flags().StringVar(&layer, "layer", "", "vegetation layer: shrub, herb, ground")

	return cmd
}

// observationUnit resolves the sampling unit an observation is recorded in.
func (c *CLI) observationUnit(ctx context.Context, r *pipeline.Runner, plotID, ref string) (*layout.Node, error) {
	root, err := r.PlotLayout(ctx, plotID)
	if err != nil {
		return nil, err
	}
	return resolveUnit(root, ref)
}

// parseEnum matches s case-insensitively against allowed. Empty is allowed
// and returns the zero value.
func parseEnum[T ~string](s, name string, allowed ...T) (T, error) {
	if s == "" {
		return "", nil
	}
	for _, a := range allowed {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown %s %q", name, s)
}

func speciesLabel(known bool, name string) string {
	if !known {
		return StyleWarning.Render("unidentified individual")
	}
	return StyleHighlight.Render(name)
}
