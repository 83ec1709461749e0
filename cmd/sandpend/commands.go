package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandpend/internal/analysis"
	"github.com/san-kum/sandpend/internal/audio"
	"github.com/san-kum/sandpend/internal/automation"
	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/experiment"
	"github.com/san-kum/sandpend/internal/export"
	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
	"github.com/san-kum/sandpend/internal/viz"
)

const (
	plotWidth  = 70
	plotHeight = 15
)

// signalContext is canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func solveThrow(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sol := plan.Solution
	fmt.Printf("Throw: x0=%.4f m  vx0=%.4f m/s  y0=%.4f m  vy0=%.4f m/s\n\n",
		cfg.Throw.X0, cfg.Throw.VX0, cfg.Throw.Y0, cfg.Throw.VY0)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tLENGTH (m)\tAMPLITUDE (rad)\tOMEGA (rad/s)\tPHASE (rad)\tPERIOD (s)")
	for _, a := range []struct {
		name   string
		length float64
		c      physics.AxisCoefficients
	}{
		{"x", sol.LengthX, sol.X},
		{"y", sol.LengthY, sol.Y},
	} {
		fmt.Fprintf(w, "%s\t%.4f\t%.6f\t%.6f\t%+.6f\t%.4f\n",
			a.name, a.length, a.c.Amplitude, a.c.Omega, a.c.Phase, a.c.Period())
	}
	w.Flush()

	fmt.Printf("\nRatio x:y  %s (%.6f), nearest simple %s\n",
		plan.Ratio, plan.Ratio.Value, plan.Ratio.Approximate(16))

	if warnings {
		for _, adv := range plan.Advisories() {
			fmt.Printf("Warning: %s\n", adv)
		}
	}
	return nil
}

func tracePath(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if outDir == "" {
		return export.WriteCSV(os.Stdout, plan.Path)
	}

	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(cfg.Export.Dir, "path.csv")
	if err := export.WriteFile(path, plan, export.FormatCSV, export.DefaultFigureOptions()); err != nil {
		return err
	}
	fmt.Printf("Wrote %d samples to %s\n", plan.Path.Len(), path)
	return nil
}

func pointAt(cmd *cobra.Command, args []string) error {
	t, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", args[0], err)
	}

	_, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, err := plan.Trajectory.At(t)
	if err != nil {
		return err
	}
	v, err := plan.Trajectory.Velocity(t)
	if err != nil {
		return err
	}
	fmt.Printf("t=%.4f s  x=%.6f m  y=%.6f m  vx=%.6f m/s  vy=%.6f m/s\n", t, p.X, p.Y, v.X, v.Y)
	return nil
}

func plotPath(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	xs, ys := plan.Path.XY()
	if len(xs) == 0 {
		return fmt.Errorf("no samples in %.3f s", cfg.Pendulum.MaxTime)
	}

	graph := asciigraph.PlotMany([][]float64{xs, ys},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Goldenrod, asciigraph.SkyBlue),
		asciigraph.Caption(fmt.Sprintf("x(t) gold, y(t) blue, %.2f s", cfg.Pendulum.MaxTime)),
	)
	fmt.Println(graph)

	if cfg.Pendulum.ShowRatio {
		fmt.Printf("\nRatio x:y %s\n", plan.Ratio.Approximate(32))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	duration, step := cfg.Pendulum.MaxTime, cfg.Pendulum.TimeStep
	if poincare {
		section, err := analysis.GeneratePoincareSection(plan.Trajectory, duration, step)
		if err != nil {
			return err
		}
		fmt.Printf("Poincaré section: y at upward x crossings (%d points)\n\n", len(section.Points))
		fmt.Println(analysis.PoincareSectionToASCII(section, plotWidth, plotHeight*2))
		return nil
	}

	axis, err := analysis.ParseAxis(axisName)
	if err != nil {
		return err
	}
	portrait, err := analysis.GeneratePhasePortrait(plan.Trajectory, axis, duration, step)
	if err != nil {
		return err
	}
	fmt.Printf("Phase portrait: θ%s against dθ%s/dt\n\n", axis, axis)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, plotWidth, plotHeight*2))
	return nil
}

func analyzePath(cmd *cobra.Command, args []string) error {
	_, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	xs, ys := plan.Path.XY()
	step := plan.Path.Step()
	sol := plan.Solution

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tMEASURED (Hz)\tPREDICTED (Hz)")
	for _, a := range []struct {
		name    string
		samples []float64
		omega   float64
	}{
		{"x", xs, sol.X.Omega},
		{"y", ys, sol.Y.Omega},
	} {
		f, err := analysis.DominantFrequency(a.samples, step)
		if err != nil {
			return fmt.Errorf("%s axis: %w", a.name, err)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", a.name, f, a.omega/(2*math.Pi))
	}
	w.Flush()

	_, px, err := analysis.Spectrum(xs, step)
	if err != nil {
		return err
	}
	_, py, err := analysis.Spectrum(ys, step)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{px, py},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Goldenrod, asciigraph.SkyBlue),
		asciigraph.Caption(fmt.Sprintf("power spectrum, %.3f Hz per bin", 1/(step*float64(len(xs))))),
	))
	return nil
}

func verifyPath(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	names := []string{integrator}
	if integrator == "all" {
		names = experiment.NewRegistry().ListIntegrators()
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tMAX DEVIATION (m)\tAT (s)\tENERGY DRIFT\tELAPSED")
	for _, name := range names {
		exp := experiment.New(experiment.Config{
			Integrator: name,
			Dt:         cfg.Pendulum.TimeStep / 10,
			Duration:   cfg.Pendulum.MaxTime,
			Adaptive:   adaptive,
		}, logger)
		report, err := exp.Run(ctx, plan.Trajectory)
		if err != nil {
			w.Flush()
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3f\t%.3e\t%v\n",
			name, report.Steps, report.MaxDeviation, report.WorstTime, report.EnergyDrift,
			report.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func exportThrow(cmd *cobra.Command, args []string) error {
	cfg, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fs, err := export.ParseFormats(formats)
	if err != nil {
		return err
	}

	store := export.NewStore(cfg.Export.Dir)
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}

	opts := export.DefaultFigureOptions()
	opts.ShowRatio = cfg.Pendulum.ShowRatio
	runID, err := store.Save(runName, plan, fs, opts)
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("id", runID))

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	fmt.Printf("Saved run %s\n", runID)
	for _, f := range meta.Files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	runs, err := export.NewStore(cfg.Export.Dir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLX\tLY\tRATIO\tSTEPS\tFILES\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\t%d\t%d\t%s\n",
			r.ID, r.LengthX, r.LengthY, r.Ratio, r.Steps, len(r.Files),
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// the lab reports advisories in its own status line
	s, err := session.New(cfg.Pendulum, zap.NewNop())
	if err != nil {
		return err
	}
	return viz.Run(s, viz.Options{
		Theme:      cfg.Theme,
		FigurePath: cfg.Export.Figure,
	})
}

func listenPath(cmd *cobra.Command, args []string) error {
	_, plan, logger, err := throwPlan(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fx, fy := 0.0, 0.0
	if synth, err := audio.NewSynth(plan.Path, speed); err == nil {
		fx, fy = synth.Frequencies()
	}
	fmt.Printf("Playing %.1f s at %gx (left %.1f Hz, right %.1f Hz), ctrl+c to stop\n", seconds, speed, fx, fy)

	ctx, cancel := signalContext()
	defer cancel()
	return audio.Listen(ctx, plan.Path, speed, time.Duration(seconds*float64(time.Second)), logger)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	store := export.NewStore(cfg.Export.Dir)
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Running scenario %q (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, store, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRATIO\tADVISORIES\tMAX DEVIATION (m)\tRUN")
	for _, r := range results {
		dev := "-"
		if r.Report != nil {
			dev = fmt.Sprintf("%.3e", r.Report.MaxDeviation)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.Name, r.Plan.Ratio.Approximate(32), len(r.Plan.Advisories()), dev, r.RunID)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Pendulum:  cfg.Pendulum,
		Throw:     cfg.Throw,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRATIO\tVALUE\tEXTENT X (m)\tEXTENT Y (m)\tADVISORIES\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%s\t%.4f\t%.4f\t%.4f\t%d\n",
			r.ParamValue, r.Ratio.Approximate(32), r.Ratio.Value, r.Extent.X, r.Extent.Y, r.Advisories)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	// every unstable trial would log an advisory
	logger = logger.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Pendulum:     cfg.Pendulum,
		Base:         cfg.Throw,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, logger)
	if err != nil {
		return err
	}

	stable, unstable, peak := automation.MonteCarloStats(results)
	fmt.Printf("Trials:    %d\n", len(results))
	fmt.Printf("Stable:    %d\n", stable)
	fmt.Printf("Unstable:  %d\n", unstable)
	fmt.Printf("Peak amplitude: %.4f rad (%.2f°)\n", peak, peak*180/math.Pi)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLX (m)\tLY (m)\tRATIO\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		ratio := "-"
		if r, err := physics.FrequencyRatio(p.LengthX, p.LengthY); err == nil {
			ratio = r.Approximate(16).String()
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%s\t%s\n", p.Name, p.LengthX, p.LengthY, ratio, p.Description)
	}
	return w.Flush()
}

func showRatio(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	lx, ly := cfg.Pendulum.LengthX, cfg.Pendulum.LengthY

	r, err := physics.FrequencyRatio(lx, ly)
	if err != nil {
		return err
	}
	tx, err := physics.Period(lx)
	if err != nil {
		return err
	}
	ty, err := physics.Period(ly)
	if err != nil {
		return err
	}

	fmt.Printf("Lx=%.4f m (T=%.4f s)  Ly=%.4f m (T=%.4f s)\n", lx, tx, ly, ty)
	fmt.Printf("Ratio x:y  %s = %.6f\n\n", r, r.Value)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAX DENOMINATOR\tFRACTION\tERROR")
	for _, d := range []int64{2, 4, 8, 16, 32, 64} {
		a := r.Approximate(d)
		fmt.Fprintf(w, "%d\t%s\t%+.2e\n", d, a, float64(a.Num)/float64(a.Den)-r.Value)
	}
	return w.Flush()
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", writePath)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
