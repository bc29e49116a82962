package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/config"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/pipeline"
	"github.com/matzehuels/plotkit/pkg/render"
)

// Layout output formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

type layoutOptions struct {
	plotID   string
	format   string
	output   string
	detailed bool
	scale    float64
	noCache  bool
	shape    shapeFlags
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOptions{format: formatJSON, scale: render.DefaultScale}

	cmd := &cobra.Command{
		Use:   "layout [blueprint-id] [version]",
		Short: "Preview a blueprint layout or export a plot's committed layout",
		Long: `Preview a blueprint layout or export a plot's committed layout.

With a blueprint id the layout is generated as a preview: node ids are
random and must not be stored. Root dimensions can be overridden with
--width, --length and --radius. Without arguments on a terminal an
interactive picker lists the catalog.

With --plot the plot's committed layout is loaded (and cached); in the DOT
and SVG formats completed sampling units are filled.

Formats: json (default), dot (Graphviz source) and svg (rendered with
Graphviz neato).`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatJSON, formatDOT, formatSVG:
			default:
				return perrors.New(perrors.ErrCodeInvalidInput, "unknown format %q (want json, dot or svg)", opts.format)
			}
			if opts.plotID != "" && len(args) > 0 {
				return perrors.New(perrors.ErrCodeInvalidInput, "--plot and a blueprint id are mutually exclusive")
			}
			return c.withRunner(cmd.Context(), opts.noCache, func(r *pipeline.Runner, _ config.Config) error {
				return c.runLayout(cmd.Context(), r, args, opts, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&opts.plotID, "plot", "", "export the committed layout of this plot")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with path and dimensions (dot, svg)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "inches per metre (dot, svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.shape.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("plot", c.completePlotIDs)

	return cmd
}

// runLayout produces the requested layout and writes it out.
func (c *CLI) runLayout(ctx context.Context, r *pipeline.Runner, args []string, opts layoutOptions, stdout io.Writer) error {
	renderOpts := render.Options{Detailed: opts.detailed, Scale: opts.scale}

	var (
		root   *layout.Node
		cached bool
		data   []byte
		err    error
	)
	if opts.plotID != "" {
		root, cached, data, err = c.plotLayout(ctx, r, opts.plotID, opts.format, renderOpts)
	} else {
		root, data, err = c.previewLayout(ctx, r, args, opts, renderOpts)
	}
	if err != nil || root == nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Layout written")
	printFile(opts.output)
	printLayoutStats(root.Count(), len(root.SamplingUnits()), cached)
	return nil
}

func (c *CLI) plotLayout(ctx context.Context, r *pipeline.Runner, plotID, format string, opts render.Options) (*layout.Node, bool, []byte, error) {
	root, cached, err := r.PlotLayoutWithCacheInfo(ctx, plotID)
	if err != nil {
		return nil, false, nil, err
	}

	var data []byte
	switch format {
	case formatDOT:
		dot, err := r.PlotDOT(ctx, plotID, opts)
		if err != nil {
			return nil, false, nil, err
		}
		data = []byte(dot)
	case formatSVG:
		data, err = spin(ctx, "Rendering SVG...", func() ([]byte, error) {
			return r.RenderPlot(ctx, plotID, opts)
		})
	default:
		data, err = layout.Marshal(root)
	}
	return root, cached, data, err
}

func (c *CLI) previewLayout(ctx context.Context, r *pipeline.Runner, args []string, opts layoutOptions, renderOpts render.Options) (*layout.Node, []byte, error) {
	var bp blueprint.Blueprint
	var err error
	if len(args) == 0 {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return nil, nil, perrors.New(perrors.ErrCodeInvalidInput, "a blueprint id or --plot is required")
		}
		var ok bool
		bp, ok, err = pickBlueprint(r.Registry.List())
		if err != nil || !ok {
			return nil, nil, err
		}
	} else if bp, err = lookupBlueprint(r.Registry, args); err != nil {
		return nil, nil, err
	}

	ov := layout.Overrides{RootDimensions: opts.shape.apply(bp.Root.Shape)}
	root, err := r.Preview(ctx, bp.ID, bp.Version, ov)
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(render.ToDOT(root, renderOpts))
	case formatSVG:
		data, err = spin(ctx, "Rendering SVG...", func() ([]byte, error) {
			return render.RenderSVG(ctx, render.ToDOT(root, renderOpts))
		})
	default:
		data, err = layout.Marshal(root)
	}
	return root, data, err
}
