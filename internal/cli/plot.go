package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/config"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/pipeline"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// plotCommand creates the plot management command.
func (c *CLI) plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Create and track survey plots",
	}

	cmd.AddCommand(c.plotCreateCommand())
	cmd.AddCommand(c.plotListCommand())
	cmd.AddCommand(c.plotShowCommand())
	cmd.AddCommand(c.plotProgressCommand())
	cmd.AddCommand(c.plotDeleteCommand())

	return cmd
}

// =============================================================================
// plot create
// =============================================================================

type plotCreateOptions struct {
	blueprintID string
	version     int
	lat, lon    float64
	accuracy    float64
	elevation   float64
	surveyors   []string
	date        string
	notes       string
	shape       shapeFlags
}

func (c *CLI) plotCreateCommand() *cobra.Command {
	var opts plotCreateOptions

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a plot pinned to a blueprint version",
		Long: `Create a plot pinned to a blueprint version.

The plot keeps the blueprint version it was created with (the latest one
unless --version is given), so its committed layout and sampling-unit ids
never change when the catalog gains new versions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			return c.withRunner(cmd.Context(), false, func(r *pipeline.Runner, _ config.Config) error {
				return c.runPlotCreate(cmd.Context(), r, args[0], opts, loc)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.blueprintID, "blueprint", "b", "", "blueprint id (required)")
	cmd.Flags().IntVar(&opts.version, "version", 0, "blueprint version (default: latest)")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().Float64Var(&opts.accuracy, "accuracy", 0, "GPS accuracy in metres")
	cmd.Flags().Float64Var(&opts.elevation, "elevation", 0, "elevation in metres")
	cmd.Flags().StringSliceVar(&opts.surveyors, "surveyor", nil, "surveyor name (repeatable)")
	cmd.Flags().StringVar(&opts.date, "date", "", "survey date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "free-text notes")
	opts.shape.register(cmd)
	_ = cmd.MarkFlagRequired("blueprint")

	return cmd
}

func (c *CLI) runPlotCreate(ctx context.Context, r *pipeline.Runner, name string, opts plotCreateOptions, withLocation bool) error {
	args := []string{opts.blueprintID}
	if opts.version > 0 {
		args = append(args, fmt.Sprint(opts.version))
	}
	bp, err := lookupBlueprint(r.Registry, args)
	if err != nil {
		return err
	}

	p := survey.NewPlot(name, bp.ID, bp.Version)
	p.RootDimensions = opts.shape.apply(bp.Root.Shape)
	p.Surveyors = opts.surveyors
	p.Notes = opts.notes
	if withLocation {
		p.Location = &survey.Location{
			Latitude:   opts.lat,
			Longitude:  opts.lon,
			AccuracyM:  opts.accuracy,
			ElevationM: opts.elevation,
		}
	}
	if opts.date != "" {
		d, err := time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return perrors.New(perrors.ErrCodeInvalidInput, "invalid survey date %q (want YYYY-MM-DD)", opts.date)
		}
		p.SurveyDate = d
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := p.Layout(r.Registry); err != nil {
		return err
	}
	if err := r.Store.PutPlot(ctx, p); err != nil {
		return err
	}

	root, cached, err := r.PlotLayoutWithCacheInfo(ctx, p.ID)
	if err != nil {
		return err
	}

	printSuccess("Created plot %s", StyleHighlight.Render(p.Name))
	printDetail("ID: %s", p.ID)
	printDetail("Blueprint: %s", bp.Key())
	printLayoutStats(root.Count(), len(root.SamplingUnits()), cached)
	printNewline()
	printNextStep("Record a tree", fmt.Sprintf("plotkit observe tree %s <unit> <species> --gbh 120", p.ID))
	return nil
}

// =============================================================================
// plot list / show / delete
// =============================================================================

func (c *CLI) plotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plots with their completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				plots, err := r.Store.ListPlots(ctx)
				if err != nil {
					return err
				}
				if len(plots) == 0 {
					printInfo("No plots yet")
					return nil
				}
				rows := make([][]string, 0, len(plots))
				for _, p := range plots {
					done := "-"
					if s, err := r.Completion(ctx, p.ID); err == nil {
						done = completionBar(s)
					}
					rows = append(rows, []string{p.ID, p.Name, fmt.Sprintf("%s@v%d", p.BlueprintID, p.BlueprintVersion), renderPlotStatus(p.Status), done, formatDate(p.SurveyDate)})
				}
				printTable([]string{"ID", "Name", "Blueprint", "Status", "Done", "Surveyed"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) plotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <plot-id>",
		Short:             "Show a plot and the state of its sampling units",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeFirstPlotID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				p, err := r.Store.GetPlot(ctx, args[0])
				if err != nil {
					return err
				}
				root, err := r.PlotLayout(ctx, p.ID)
				if err != nil {
					return err
				}
				progress, err := r.Store.ListProgress(ctx, p.ID)
				if err != nil {
					return err
				}

				printKeyValue("ID", p.ID)
				printKeyValue("Name", p.Name)
				printKeyValue("Blueprint", fmt.Sprintf("%s@v%d", p.BlueprintID, p.BlueprintVersion))
				printKeyValue("Root", describeShape(root.Shape))
				printKeyValue("Status", renderPlotStatus(p.Status))
				if p.Location != nil {
					printKeyValue("Location", fmt.Sprintf("%.6f, %.6f", p.Location.Latitude, p.Location.Longitude))
				}
				if len(p.Surveyors) > 0 {
					printKeyValue("Surveyors", strings.Join(p.Surveyors, ", "))
				}
				if !p.SurveyDate.IsZero() {
					printKeyValue("Surveyed", formatDate(p.SurveyDate))
				}
				s := survey.Completion(root, progress)
				printKeyValue("Completion", fmt.Sprintf("%s (%.0f%%)", completionBar(s), s.Fraction*100))
				printNewline()

				printTable([]string{"Unit", "Path", "Status"}, unitRows(root, progress))
				return nil
			})
		},
	}
}

func (c *CLI) plotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <plot-id>",
		Short:             "Delete a plot with its observations and progress",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeFirstPlotID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				if err := r.Store.DeletePlot(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted plot %s", args[0])
				return nil
			})
		},
	}
}

// unitRows lists the sampling units of root with their progress.
func unitRows(root *layout.Node, progress []survey.SamplingUnitProgress) [][]string {
	state := make(map[string]survey.ProgressStatus, len(progress))
	for _, p := range progress {
		state[p.SamplingUnitID] = p.Status
	}
	var rows [][]string
	for _, u := range root.SamplingUnits() {
		st, ok := state[u.ID]
		if !ok {
			st = survey.NotStarted
		}
		rows = append(rows, []string{u.Label, u.Path, renderProgress(st)})
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// =============================================================================
// plot progress
// =============================================================================

func (c *CLI) plotProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <plot-id> <unit> <not-started|in-progress|done>",
		Short: "Set the survey state of a sampling unit",
		Long: `Set the survey state of a sampling unit.

The unit may be given by id, structural path (e.g. root/r0c1) or label.
The plot's own status follows: it becomes IN_PROGRESS with the first
started unit and COMPLETED when every unit is done.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeFirstPlotID,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseProgressStatus(args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, _ config.Config) error {
				return c.runPlotProgress(ctx, r, args[0], args[1], status)
			})
		},
	}
}

func (c *CLI) runPlotProgress(ctx context.Context, r *pipeline.Runner, plotID, unitRef string, status survey.ProgressStatus) error {
	p, err := r.Store.GetPlot(ctx, plotID)
	if err != nil {
		return err
	}
	root, err := r.PlotLayout(ctx, plotID)
	if err != nil {
		return err
	}
	unit, err := resolveUnit(root, unitRef)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := r.Store.PutProgress(ctx, survey.SamplingUnitProgress{
		PlotID:         plotID,
		SamplingUnitID: unit.ID,
		Status:         status,
		UpdatedAt:      now,
	}); err != nil {
		return err
	}

	s, err := r.Completion(ctx, plotID)
	if err != nil {
		return err
	}
	if next := plotStatus(s); next != p.Status {
		p.Status = next
		p.UpdatedAt = now
		if err := r.Store.PutPlot(ctx, p); err != nil {
			return err
		}
		c.Logger.Debug("plot status changed", "plot", plotID, "status", next)
	}

	printSuccess("%s %s", unit.Label, renderProgress(status))
	printDetail("%d/%d units done (%.0f%%)", s.Done, s.Total, s.Fraction*100)
	return nil
}

// plotStatus derives a plot's status from its completion.
func plotStatus(s survey.CompletionSummary) survey.Status {
	switch {
	case s.Total > 0 && s.Done == s.Total:
		return survey.StatusCompleted
	case s.Done > 0 || s.InProgress > 0:
		return survey.StatusInProgress
	default:
		return survey.StatusPlanned
	}
}

// parseProgressStatus accepts "done", "in-progress", "IN_PROGRESS" and so on.
func parseProgressStatus(s string) (survey.ProgressStatus, error) {
	st := survey.ProgressStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !st.Valid() {
		return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown progress status %q (want not-started, in-progress or done)", s)
	}
	return st, nil
}

// resolveUnit finds a sampling unit of root by id, path or unique label.
func resolveUnit(root *layout.Node, ref string) (*layout.Node, error) {
	if n, ok := root.Find(ref); ok && n.IsSamplingUnit() {
		return n, nil
	}
	if n, ok := root.ByPath(ref); ok && n.IsSamplingUnit() {
		return n, nil
	}
	var match *layout.Node
	for _, u := range root.SamplingUnits() {
		if u.Label != ref {
			continue
		}
		if match != nil {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "label %q names several sampling units; use the path", ref)
		}
		match = u
	}
	if match == nil {
		return nil, perrors.New(perrors.ErrCodeNotFound, "no sampling unit %q", ref)
	}
	return match, nil
}
