package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/config"
	"github.com/matzehuels/plotkit/pkg/ecology"
	"github.com/matzehuels/plotkit/pkg/pipeline"
)

type analyzeFlags struct {
	iterations int
	seed       uint64
	top        int
	refresh    bool
	asJSON     bool
	noCache    bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [plot-id...]",
		Short: "Compute diversity, importance values and the species-accumulation curve",
		Long: `Compute diversity, importance values and the species-accumulation curve.

Without plot ids every plot in the store is analysed. Diversity (Shannon,
Simpson, evenness) covers the tree layer and, separately, the ground
vegetation weighted by abundance. Species are ranked by importance value
(relative abundance + relative basal area + relative frequency).

The species-accumulation curve averages --iterations random plot orders.
With --seed the curve is reproducible and the report is cached.`,
		ValidArgsFunction: c.completePlotIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, flags.noCache, func(r *pipeline.Runner, cfg config.Config) error {
				opts := analyzeOptions(cmd, cfg, flags, args)
				return c.runAnalyze(ctx, r, opts, flags.asJSON, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().IntVarP(&flags.iterations, "iterations", "n", 0, "species-accumulation permutations (default from config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed for a reproducible curve")
	cmd.Flags().IntVar(&flags.top, "top", pipeline.DefaultTopSpecies, "species in the importance-value chart")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached report exists")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the full report as JSON")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

// analyzeOptions merges flags over the configured analysis defaults.
func analyzeOptions(cmd *cobra.Command, cfg config.Config, flags analyzeFlags, plotIDs []string) pipeline.AnalyzeOptions {
	opts := pipeline.AnalyzeOptions{
		PlotIDs:    plotIDs,
		Iterations: cfg.Analysis.Iterations,
		Seed:       cfg.Analysis.Seed,
		TopSpecies: flags.top,
		Refresh:    flags.refresh,
	}
	if cmd.Flags().Changed("iterations") {
		opts.Iterations = flags.iterations
	}
	if cmd.Flags().Changed("seed") {
		seed := flags.seed
		opts.Seed = &seed
	}
	return opts
}

func (c *CLI) runAnalyze(ctx context.Context, r *pipeline.Runner, opts pipeline.AnalyzeOptions, asJSON bool, stdout io.Writer) error {
	prog := newProgress(c.Logger)
	type result struct {
		report *pipeline.Report
		cached bool
	}
	res, err := spin(ctx, "Analysing plots...", func() (result, error) {
		report, cached, err := r.AnalyzeWithCacheInfo(ctx, opts)
		return result{report, cached}, err
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analysed %d plots", len(res.report.PlotIDs)))

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.report)
	}
	printReport(res.report, res.cached)
	return nil
}

// =============================================================================
// Report Output
// =============================================================================

func printReport(rep *pipeline.Report, cached bool) {
	status := iconFresh
	if cached {
		status = iconCached
	}
	fmt.Println(StyleTitle.Render("Diversity") + " " + StyleDim.Render(fmt.Sprintf("%d plots · %s", len(rep.PlotIDs), status)))
	printDiversity("Trees", rep.Diversity)
	printDiversity("Vegetation", rep.Vegetation)
	printNewline()

	if len(rep.Species) > 0 {
		fmt.Println(StyleTitle.Render("Importance values"))
		printTable(
			[]string{"Species", "N", "Basal area m²", "Freq %", "Rel. abund.", "Rel. BA", "Rel. freq.", "IVI"},
			speciesRows(rep.Species, len(rep.IVISeries.Points)),
			1, 2, 3, 4, 5, 6, 7,
		)
		printNewline()
	}

	if len(rep.SAC) > 0 {
		fmt.Println(StyleTitle.Render("Species accumulation") + " " +
			StyleDim.Render(fmt.Sprintf("%d permutations%s", rep.Iterations, seedNote(rep.Seed))))
		printTable([]string{"Plots", "Species", "SD"}, sacRows(rep.SAC), 0, 1, 2)
		printNewline()
	}

	if len(rep.Completion) > 0 {
		ids := make([]string, 0, len(rep.Completion))
		for id := range rep.Completion {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			s := rep.Completion[id]
			rows = append(rows, []string{id, completionBar(s), fmt.Sprintf("%.0f%%", s.Fraction*100)})
		}
		fmt.Println(StyleTitle.Render("Completion"))
		printTable([]string{"Plot", "Units done", "Complete"}, rows, 2)
	}
}

func printDiversity(name string, d ecology.Diversity) {
	if d.Individuals == 0 {
		printKeyValue(name, StyleDim.Render("no records"))
		return
	}
	printKeyValue(name, fmt.Sprintf("%d species · %d individuals · H' %.3f · D %.3f · J' %.3f",
		d.Richness, d.Individuals, d.Shannon, d.Simpson, d.Evenness))
}

// speciesRows formats the top n species; n <= 0 lists all of them.
func speciesRows(species []ecology.SpeciesStats, n int) [][]string {
	if n <= 0 || n > len(species) {
		n = len(species)
	}
	rows := make([][]string, 0, n)
	for _, s := range species[:n] {
		rows = append(rows, []string{
			s.Species,
			strconv.Itoa(s.Abundance),
			fmt.Sprintf("%.4f", s.BasalArea),
			fmt.Sprintf("%.1f", s.Frequency),
			fmt.Sprintf("%.1f", s.RelativeAbundance),
			fmt.Sprintf("%.1f", s.RelativeBasalArea),
			fmt.Sprintf("%.1f", s.RelativeFrequency),
			fmt.Sprintf("%.1f", s.IVI),
		})
	}
	return rows
}

func sacRows(points []ecology.SACPoint) [][]string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{strconv.Itoa(p.PlotsSampled), fmt.Sprintf("%.2f", p.Richness), fmt.Sprintf("%.2f", p.SD)})
	}
	return rows
}

func seedNote(seed *uint64) string {
	if seed == nil {
		return ""
	}
	return fmt.Sprintf(" · seed %d", *seed)
}
