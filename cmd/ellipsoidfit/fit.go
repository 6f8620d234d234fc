package main

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/geo/r3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"segmentation3d/internal/models"
	"segmentation3d/pkg/config"
	"segmentation3d/pkg/ellipsoid"
	"segmentation3d/pkg/pointio"
	"segmentation3d/pkg/quadric"
)

type fitOptions struct {
	configPath string
	gamma      float64
	iterations int
	cores      int
	format     string
	verbose    bool
	group      string
}

func newFitCmd() *cobra.Command {
	opts := &fitOptions{}

	fitCmd := &cobra.Command{
		Use:   "fit <points-file>...",
		Short: "Fit an ellipsoid to each point file",
		Long: `Fit an ellipsoid to each point file. Files ending in .yaml or .yml hold a
point cloud document, files ending in .csv, .txt or .xyz hold one x,y,z row
per line. All files are fitted in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, opts, args)
		},
	}

	flags := fitCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "configuration file")
	flags.Float64Var(&opts.gamma, "gamma", ellipsoid.DefaultGamma, "Douglas-Rachford step")
	flags.IntVar(&opts.iterations, "iterations", ellipsoid.DefaultIterations, "number of iterations")
	flags.IntVar(&opts.cores, "cores", 0, "number of point sets fitted in parallel (default: all available)")
	flags.StringVarP(&opts.format, "format", "f", config.FormatText, "report format: text or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&opts.group, "group", "g", "fits", "name of the group the fitted quadrics are collected in")

	return fitCmd
}

// resolveConfig loads the configuration file and applies the flags the user set
func resolveConfig(cmd *cobra.Command, opts *fitOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("gamma") {
		cfg.Fitting.Gamma = opts.gamma
	}
	if flags.Changed("iterations") {
		cfg.Fitting.Iterations = opts.iterations
	}
	if flags.Changed("cores") {
		cfg.Processing.NumCores = opts.cores
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = opts.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runFit(cmd *cobra.Command, opts *fitOptions, paths []string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Output.Verbose)

	clouds, err := pointio.LoadAll(paths)
	if err != nil {
		return err
	}

	sets := make([][]r3.Vector, len(clouds))
	for i, pc := range clouds {
		sets[i] = pc.Vectors()
		logger.Debug("point set loaded", "source", pc.Name, "points", len(pc.Points))
	}

	fitter, err := ellipsoid.NewFitter(cfg.FitParams(),
		ellipsoid.WithLogger(logger),
		ellipsoid.WithWorkers(cfg.Processing.NumCores),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := fitter.FitAll(cmd.Context(), sets)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	group := quadric.NewNamedSet(opts.group)
	reports := make([]*models.FitReport, len(results))
	for i, res := range results {
		group.Add(res.Quadric)
		reports[i] = models.NewFitReport(clouds[i].Name, len(sets[i]), res)
	}

	out := cmd.OutOrStdout()
	if cfg.Output.Format == config.FormatYAML {
		return writeYAMLReports(out, reports)
	}

	writeTextReports(out, reports)
	writeGroupSummary(out, group)
	fmt.Fprintf(out, "\nFitted %d quadrics in %.3f seconds using up to %d cores\n",
		group.Len(), elapsed.Seconds(), cfg.Processing.NumCores)
	return nil
}

// writeGroupSummary prints the group totals. Degenerate fits are listed
// separately since they have no volume or surface.
func writeGroupSummary(w io.Writer, group *quadric.Set) {
	fmt.Fprintf(w, "\nGroup %s\n", group.Name())
	fmt.Fprintln(w, "================================")
	fmt.Fprintf(w, "Members: %d\n", group.Len())
	fmt.Fprintf(w, "Total volume: %.4f\n", group.TotalVolume())
	fmt.Fprintf(w, "Total surface: %.4f\n", group.TotalSurface())
	if n := group.Degenerate(); n > 0 {
		fmt.Fprintf(w, "Degenerate fits left out of totals: %d\n", n)
	}
}

func writeYAMLReports(w io.Writer, reports []*models.FitReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("error encoding reports: %w", err)
	}
	return enc.Close()
}

func writeTextReports(w io.Writer, reports []*models.FitReport) {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Fit of %s\n", r.Source)
		fmt.Fprintln(w, "================================")
		fmt.Fprintf(w, "ID: %s\n", r.ID)
		fmt.Fprintf(w, "Points: %d\n", r.Points)
		fmt.Fprintf(w, "Iterations: %d (residual %.3g)\n", r.Iterations, r.Residual)

		c := r.Coefficients
		fmt.Fprintln(w, "Coefficients:")
		fmt.Fprintf(w, "  a=%.6g b=%.6g c=%.6g\n", c.A, c.B, c.C)
		fmt.Fprintf(w, "  d=%.6g e=%.6g f=%.6g\n", c.D, c.E, c.F)
		fmt.Fprintf(w, "  g=%.6g h=%.6g i=%.6g\n", c.G, c.H, c.I)
		fmt.Fprintf(w, "  j=%.6g\n", c.J)

		if e := r.Ellipsoid; e != nil {
			fmt.Fprintln(w, "Ellipsoid:")
			fmt.Fprintf(w, "  Center: (%.4f, %.4f, %.4f)\n", e.Center.X, e.Center.Y, e.Center.Z)
			fmt.Fprintf(w, "  Semi-axes: %.4f, %.4f, %.4f\n", e.SemiAxes[0], e.SemiAxes[1], e.SemiAxes[2])
			fmt.Fprintf(w, "  Volume: %.4f\n", e.Volume)
			fmt.Fprintf(w, "  Surface: %.4f\n", e.Surface)
		} else {
			fmt.Fprintln(w, "Ellipsoid: degenerate")
		}

		fmt.Fprintln(w, "Fit quality:")
		fmt.Fprintf(w, "  Algebraic RMSE: %.6g\n", r.Metrics.AlgebraicRMSE)
		fmt.Fprintf(w, "  Mean distance: %.6g\n", r.Metrics.MeanDistance)
		fmt.Fprintf(w, "  Max distance: %.6g\n", r.Metrics.MaxDistance)
	}
}
