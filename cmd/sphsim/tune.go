package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphcore/internal/config"
	"github.com/san-kum/sphcore/internal/optim"
)

var (
	tuneGrid   []string
	tuneMetric string
	tuneSteps  int
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search solver parameters against a diagnostic",
		Args:  cobra.ExactArgs(1),
		RunE:  tunePreset,
	}
	cmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"stiffness=10,25,50,100"}, "parameter values, name=v1,v2,...")
	cmd.Flags().StringVar(&tuneMetric, "metric", "max_density_error", "diagnostic to minimise")
	cmd.Flags().IntVar(&tuneSteps, "steps", 100, "steps per candidate")
	return cmd
}

// parseGrid turns name=v1,v2 entries into parallel name and value slices,
// sorted by name.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	grid := make(map[string][]float64, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q", e)
		}
		var vals []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid entry %q: %w", e, err)
			}
			vals = append(vals, v)
		}
		grid[name] = vals
	}

	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, name := range names {
		ranges[i] = grid[name]
	}
	return names, ranges, nil
}

// evaluator runs base with each candidate's parameters and reports the
// final value of metric.
func evaluator(base *config.Config, steps int, metric string, log logr.Logger) optim.Evaluate {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		cfg.Steps = steps
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}
		res, err := simulate(ctx, cfg, logr.Discard())
		if err != nil {
			log.V(1).Info("candidate failed", "params", params, "error", err.Error())
			return 0, err
		}
		for _, m := range res.Metrics {
			if m.Name() == metric {
				log.V(1).Info("candidate", "params", params, metric, m.Value())
				return m.Value(), nil
			}
		}
		return 0, fmt.Errorf("unknown metric: %s", metric)
	}
}

func tunePreset(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("tuning %s: %d candidates, %d steps each\n\n", args[0], g.Size(), tuneSteps)
	res, err := g.Search(ctx, evaluator(base, tuneSteps, tuneMetric, newLogger()))
	if err != nil {
		return err
	}

	fields := make([][2]string, 0, len(names)+2)
	for _, name := range names {
		fields = append(fields, [2]string{name, strconv.FormatFloat(res.Params[name], 'g', -1, 64)})
	}
	fields = append(fields,
		[2]string{tuneMetric, fmt.Sprintf("%.6g", res.Value)},
		[2]string{"failed", fmt.Sprint(res.Failed)},
	)
	fmt.Println(summary("best candidate", fields))
	return nil
}
