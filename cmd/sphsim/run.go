package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/san-kum/sphcore/internal/config"
	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/metrics"
	"github.com/san-kum/sphcore/internal/particles"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/storage"
)

// result is what a finished run reports back to the CLI.
type result struct {
	Solver  *sph.Solver
	Scene   *particles.Set
	Series  *storage.Series
	Metrics []metrics.Metric
	Steps   int
	Elapsed time.Duration
}

// sampleEvery is how many steps pass between diagnostics rows.
func sampleEvery(steps int) int {
	if steps <= 200 {
		return 1
	}
	return steps / 200
}

// simulate builds the scene and solver from cfg and steps it cfg.Steps
// times, checking ctx between steps.
func simulate(ctx context.Context, cfg *config.Config, log logr.Logger) (*result, error) {
	k, err := kernel.New(cfg.Kernel, cfg.Dim)
	if err != nil {
		return nil, err
	}
	solver, err := sph.New(cfg.Params(), k)
	if err != nil {
		return nil, err
	}
	solver.SetLogger(log.WithName("solver"))

	scene, err := cfg.Scene()
	if err != nil {
		return nil, err
	}
	if err := solver.CheckScene(scene); err != nil {
		return nil, err
	}
	log.Info("scene ready", "particles", scene.Len(), "dim", cfg.Dim, "kernel", k.Name())

	ms := metrics.Defaults(cfg.RestDensity)
	series := &storage.Series{}
	every := sampleEvery(cfg.Steps)
	dt := cfg.Dt

	// Densities stored by Step predate the following Advance; rows are
	// taken at the current positions.
	observe := func(step int) {
		scene.RecalculateDensities(k.Weight, cfg.H)
		row := make(map[string]float64, len(ms))
		for _, m := range ms {
			m.Observe(scene)
			row[m.Name()] = m.Value()
		}
		series.Append(float64(step)*dt, row)
	}
	observe(0)

	start := time.Now()
	step := 0
	for step < cfg.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped after %d steps: %w", step, err)
		}
		if err := solver.Step(scene); err != nil {
			return nil, err
		}
		scene.Advance(dt)
		step++

		if err := sph.CheckFinite(scene); err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		if step%every == 0 || step == cfg.Steps {
			observe(step)
		}
	}

	return &result{
		Solver:  solver,
		Scene:   scene,
		Series:  series,
		Metrics: ms,
		Steps:   step,
		Elapsed: time.Since(start),
	}, nil
}
