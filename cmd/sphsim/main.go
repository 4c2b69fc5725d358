package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphcore/internal/config"
	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/storage"
	"github.com/san-kum/sphcore/internal/workers"
)

var (
	dataDir    string
	verbosity  int
	configFile string
	preset     string
	save       bool
	plot       bool
	benchSteps int

	over = config.DefaultConfig()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sphsim",
		Short:         "smoothed particle hydrodynamics runner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sphsim", "data directory")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or gcfg)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", false, "save diagnostics to the data directory")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot diagnostics when done")
	addOverrideFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time serial against parallel stepping",
		Args:  cobra.ExactArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 50, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("%-12s %dD  kernel=%s  steps=%d\n", name, p.Dim, p.Kernel, p.Steps)
			}
		},
	}

	kernelsCmd := &cobra.Command{
		Use:   "kernels",
		Short: "list smoothing kernels",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range kernel.Names() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&plot, "plot", false, "plot diagnostics")

	rootCmd.AddCommand(runCmd, benchCmd, newTuneCmd(), presetsCmd, kernelsCmd, listCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addOverrideFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&over.Kernel, "kernel", over.Kernel, "smoothing kernel")
	f.IntVar(&over.Dim, "dim", over.Dim, "spatial dimension (1-3)")
	f.IntVar(&over.Steps, "steps", over.Steps, "number of steps")
	f.Float64Var(&over.Dt, "dt", over.Dt, "timestep")
	f.Float64Var(&over.H, "h", over.H, "smoothing length")
	f.Float64Var(&over.Stiffness, "stiffness", over.Stiffness, "pressure stiffness")
	f.Float64Var(&over.RestDensity, "rest-density", over.RestDensity, "rest density")
	f.Float64Var(&over.Viscosity, "viscosity", over.Viscosity, "dynamic viscosity (0 disables)")
	f.Float64Var(&over.Gravity, "gravity", over.Gravity, "gravitational acceleration")
	f.Int64Var(&over.Seed, "seed", over.Seed, "lattice jitter seed")
}

// applyOverrides copies every flag the user set onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("kernel", func() { cfg.Kernel = over.Kernel })
	set("dim", func() { cfg.Dim = over.Dim })
	set("steps", func() { cfg.Steps = over.Steps })
	set("dt", func() { cfg.Dt = over.Dt })
	set("h", func() { cfg.H = over.H })
	set("stiffness", func() { cfg.Stiffness = over.Stiffness })
	set("rest-density", func() { cfg.RestDensity = over.RestDensity })
	set("viscosity", func() { cfg.Viscosity = over.Viscosity })
	set("gravity", func() { cfg.Gravity = over.Gravity })
	set("seed", func() { cfg.Seed = over.Seed })
}

func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity, LogTimestamp: true})
}

func loadConfig() (*config.Config, string, error) {
	switch {
	case configFile != "" && preset != "":
		return nil, "", fmt.Errorf("--config and --preset are exclusive")
	case configFile != "":
		cfg, err := config.Load(configFile)
		return cfg, configFile, err
	case preset != "":
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s", preset)
		}
		return cfg, preset, nil
	}
	return config.DefaultConfig(), "default", nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger()
	res, err := simulate(ctx, cfg, log)
	if err != nil {
		return err
	}

	final := make(map[string]float64, len(res.Metrics))
	for _, m := range res.Metrics {
		final[m.Name()] = m.Value()
	}

	fields := [][2]string{
		{"scenario", scenario},
		{"kernel", cfg.Kernel},
		{"particles", fmt.Sprint(res.Scene.Len())},
		{"steps", fmt.Sprint(res.Steps)},
		{"simulated time", fmt.Sprintf("%.4gs", float64(res.Steps)*cfg.Dt)},
		{"wall time", res.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Println(summary("sph run", append(fields, metricFields(final)...)))

	if plot {
		fmt.Println()
		fmt.Print(plotSeries(res.Series, "kinetic_energy", "max_density_error"))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scenario:  scenario,
			Seed:      cfg.Seed,
			Dim:       cfg.Dim,
			Kernel:    cfg.Kernel,
			Particles: res.Scene.Len(),
			Steps:     res.Steps,
			Params:    res.Solver.GetParams(),
			Metrics:   final,
		}, res.Series)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", runID)
	}
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	k, err := kernel.New(cfg.Kernel, cfg.Dim)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d workers)\n\n", args[0], workers.Count())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, mode := range []string{"serial", "parallel"} {
		scene, err := cfg.Scene()
		if err != nil {
			return err
		}
		solver, err := sph.New(cfg.Params(), k)
		if err != nil {
			return err
		}
		if mode == "serial" {
			scene.SetMinChunk(scene.Len() + 1)
			solver.SetMinChunk(scene.Len() + 1)
		}

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			if err := solver.Step(scene); err != nil {
				return err
			}
			scene.Advance(cfg.Dt)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.1f\n",
			mode, scene.Len(), benchSteps,
			elapsed.Round(time.Microsecond),
			float64(benchSteps)/elapsed.Seconds(),
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDIM\tKERNEL\tPARTICLES\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Kernel,
			run.Particles,
			run.Steps,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	if plot {
		series, err := st.LoadSeries(args[0])
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(plotSeries(series, "kinetic_energy", "max_density_error"))
	}
	return nil
}
