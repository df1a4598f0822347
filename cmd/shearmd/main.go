package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jkleist/shearmd/internal/config"
	"github.com/jkleist/shearmd/internal/run"
	"github.com/jkleist/shearmd/internal/storage"
	"github.com/jkleist/shearmd/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	n           int
	density     float64
	temperature float64
	dt          float64
	steps       int
	strainRate  float64
	lambda      float64
	cutoffs     []float64
	blockSize   int
	seed        int64
	snapEvery   int
	noStore     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shearmd",
		Short: "sheared Lennard-Jones molecular dynamics",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".shearmd", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, false)
		},
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live observable dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, true)
		},
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			fmt.Println(strings.Join(names, "\n"))
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, presetsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	cmd.Flags().IntVar(&n, "n", config.DefaultN, "number of particles")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "number density")
	cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "temperature")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&strainRate, "strain-rate", config.DefaultStrainRate, "shear strain rate")
	cmd.Flags().Float64Var(&lambda, "lambda", config.DefaultLambda, "switching width")
	cmd.Flags().Float64SliceVar(&cutoffs, "cutoffs", nil, "shell cutoffs (sigma units)")
	cmd.Flags().IntVar(&blockSize, "block", config.DefaultBlockSize, "block size for averages")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&snapEvery, "snap-every", 0, "snapshot interval in steps (0 disables)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist run data")
}

// buildConfig layers preset, config file and explicit flags, in that
// order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if p := config.GetPreset(preset); p != nil {
			cfg = p
		} else {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("n", func() { cfg.N = n })
	set("density", func() { cfg.Density = density })
	set("temp", func() { cfg.Temperature = temperature })
	set("dt", func() { cfg.Dt = dt })
	set("steps", func() { cfg.Steps = steps })
	set("strain-rate", func() { cfg.StrainRate = strainRate })
	set("lambda", func() { cfg.Lambda = lambda })
	set("cutoffs", func() { cfg.Cutoffs = cutoffs })
	set("block", func() { cfg.BlockSize = blockSize })
	set("seed", func() { cfg.Seed = seed })
	set("snap-every", func() { cfg.SnapEvery = snapEvery })
	cfg.DataDir = dataDir
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, live bool) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := run.New(cfg)
	if err != nil {
		return err
	}
	if !noStore {
		if err := runner.WithStore(storage.New(cfg.DataDir)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if live {
		return runLive(ctx, runner)
	}

	start := time.Now()
	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(cfg, result, elapsed)
	return nil
}

func runLive(ctx context.Context, runner *run.Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := viz.NewFeed()
	runner.AddObserver(feed)

	errCh := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		feed.Close()
		errCh <- err
	}()

	p := tea.NewProgram(viz.NewModel(feed.C))
	if _, err := p.Run(); err != nil {
		return err
	}
	cancel()

	// quitting the view cancels the run; that is not a failure
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printSummary(cfg *config.Config, result *run.Result, elapsed time.Duration) {
	fmt.Printf("%d particles, density %.3f, box %.3f, %d shells, strain rate %g\n",
		cfg.N, cfg.Density, cfg.Box(), len(cfg.Cutoffs), cfg.StrainRate)
	fmt.Printf("%d steps in %s, final strain %.4f\n\n", result.StepsTaken, elapsed.Round(time.Millisecond), result.FinalStrain)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "observable\tmean\tstderr")
	for _, name := range run.ObservableNames {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, result.Means[name], result.StdErrs[name])
	}
	w.Flush()

	if len(result.Trace) > 1 {
		energy := make([]float64, len(result.Trace))
		for i, obs := range result.Trace {
			energy[i] = obs.Energy
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy, asciigraph.Height(10), asciigraph.Caption("E/N per step")))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\twhen\tn\tdensity\tstrain rate\tsteps\tE/N")
	for _, id := range runs {
		meta, err := store.LoadMetadata(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%g\t%d\t%.5f\n",
			meta.ID, meta.Timestamp.Format("2006-01-02 15:04"),
			meta.N, meta.Density, meta.StrainRate, meta.Steps, meta.Means["energy"])
	}
	return w.Flush()
}
