package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/gui"
	"github.com/san-kum/sandpend/internal/logging"
	"github.com/san-kum/sandpend/internal/session"
)

var (
	// Config file and preset
	configFile string
	presetName string
	// Pendulum
	lengthX   float64
	lengthY   float64
	maxTime   float64
	timeStep  float64
	speedMult float64
	// Throw
	x0  float64
	vx0 float64
	y0  float64
	vy0 float64
	// Output
	warnings bool
	verbose  bool
	outDir   string
	theme    string
	// Command specific
	integrator string
	adaptive   bool
	formats    string
	runName    string
	axisName   string
	poincare   bool
	speed      float64
	seconds    float64
	withAudio  bool
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	perturb    float64
	seed       int64
	writePath  string
)

// main is the entry point for the sandpend CLI. With no subcommand it
// opens the desktop window.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sandpend",
		Short: "two-axis sand pendulum lissajous lab",
		RunE:  runGUI,
	}
	rootCmd.SilenceUsage = true
	rootCmd.Flags().BoolVar(&withAudio, "audio", false, "play the figure as XY audio")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&presetName, "preset", "", "length preset (see presets)")
	pf.Float64Var(&lengthX, "lx", config.DefaultLengthX, "x arm length (m)")
	pf.Float64Var(&lengthY, "ly", config.DefaultLengthY, "y arm length (m)")
	pf.Float64Var(&maxTime, "time", config.DefaultMaxTime, "duration (s)")
	pf.Float64Var(&timeStep, "dt", config.DefaultTimeStep, "time step (s)")
	pf.Float64Var(&speedMult, "speed-mult", config.DefaultSpeedMultiplier, "drag length to throw speed")
	pf.Float64Var(&x0, "x0", 0, "initial x position (m)")
	pf.Float64Var(&vx0, "vx0", 0, "initial x velocity (m/s)")
	pf.Float64Var(&y0, "y0", 0, "initial y position (m)")
	pf.Float64Var(&vy0, "vy0", 0, "initial y velocity (m/s)")
	pf.BoolVar(&warnings, "warnings", true, "report small-angle advisories")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "terminal theme")
	pf.StringVar(&outDir, "out", "", "output directory (default from config)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "print the coefficients of a throw",
		RunE:  solveThrow,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "sample the path as csv (range mode)",
		RunE:  tracePath,
	}

	pointCmd := &cobra.Command{
		Use:   "point [t]",
		Short: "position at one instant (instant mode)",
		Args:  cobra.ExactArgs(1),
		RunE:  pointAt,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot x(t) and y(t) in the terminal",
		RunE:  plotPath,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait or poincare section",
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&axisName, "axis", "x", "axis for the portrait (x or y)")
	phaseCmd.Flags().BoolVar(&poincare, "poincare", false, "y at upward x zero crossings instead")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency analysis of the sampled path",
		RunE:  analyzePath,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "integrate the ODE and compare with the closed form",
		RunE:  verifyPath,
	}
	verifyCmd.Flags().StringVar(&integrator, "integrator", "all", "integrator, or all")
	verifyCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "save the figure and data of a throw",
		RunE:  exportThrow,
	}
	exportCmd.Flags().StringVar(&formats, "formats", "all", "comma separated: png,svg,csv,json")
	exportCmd.Flags().StringVar(&runName, "name", "throw", "run name")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal lab",
		RunE:  runLive,
	}

	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "play the figure on the left and right audio channels",
		RunE:  listenPath,
	}
	listenCmd.Flags().Float64Var(&speed, "speed", 100, "time compression")
	listenCmd.Flags().Float64Var(&seconds, "seconds", 5, "playback length")

	batchCmd := &cobra.Command{
		Use:   "batch [script.yaml]",
		Short: "run a scripted sequence of throws",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "throw across a range of one parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "length_y", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.25, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	monteCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "throw randomly perturbed initial conditions",
		RunE:  runMonteCarlo,
	}
	monteCmd.Flags().IntVar(&trials, "trials", 100, "number of throws")
	monteCmd.Flags().Float64Var(&perturb, "perturb", 0.01, "perturbation half width")
	monteCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list length presets",
		RunE:  listPresets,
	}

	ratioCmd := &cobra.Command{
		Use:   "ratio",
		Short: "frequency ratio of the arm lengths",
		RunE:  showRatio,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print or write the resolved configuration",
		RunE:  showConfig,
	}
	configCmd.Flags().StringVar(&writePath, "write", "", "write to this file instead of stdout")

	rootCmd.AddCommand(solveCmd, traceCmd, pointCmd, plotCmd, phaseCmd, analyzeCmd, verifyCmd,
		exportCmd, runsCmd, liveCmd, listenCmd, batchCmd, sweepCmd, monteCmd, presetsCmd, ratioCmd, configCmd)
	return rootCmd
}

// resolveConfig builds the configuration of a command: the config file or
// the defaults, then the preset, then any flag set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		p.Apply(cfg)
	}

	flags := cmd.Flags()
	for _, f := range []struct {
		name string
		dst  *float64
		v    float64
	}{
		{"lx", &cfg.Pendulum.LengthX, lengthX},
		{"ly", &cfg.Pendulum.LengthY, lengthY},
		{"time", &cfg.Pendulum.MaxTime, maxTime},
		{"dt", &cfg.Pendulum.TimeStep, timeStep},
		{"speed-mult", &cfg.Pendulum.SpeedMultiplier, speedMult},
		{"x0", &cfg.Throw.X0, x0},
		{"vx0", &cfg.Throw.VX0, vx0},
		{"y0", &cfg.Throw.Y0, y0},
		{"vy0", &cfg.Throw.VY0, vy0},
	} {
		if flags.Changed(f.name) {
			*f.dst = f.v
		}
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("out") {
		cfg.Export.Dir = outDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns the command logger. Without --warnings advisories,
// which are logged at warn level, are dropped.
func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}
	if !warnings && !verbose {
		logger = logger.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
	}
	return logger, nil
}

// setup resolves the configuration and opens a session on it.
func setup(cmd *cobra.Command) (*config.Config, *session.Session, *zap.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := session.New(cfg.Pendulum, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, s, logger, nil
}

// throwPlan solves the configured throw.
func throwPlan(cmd *cobra.Command) (*config.Config, *session.Plan, *zap.Logger, error) {
	cfg, s, logger, err := setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	plan, err := s.ThrowAt(cfg.Throw)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, plan, logger, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, s, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return gui.Run(s, gui.Options{
		FigurePath: cfg.Export.Figure,
		Audio:      withAudio,
		Logger:     logger,
	})
}
