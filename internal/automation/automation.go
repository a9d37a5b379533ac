// Package automation runs scripted batches of simulations and randomized
// perturbation studies on top of the experiment package.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/solarsim/internal/cmdutil"
	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/experiment"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/spacefile"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScript = errors.New("automation: script has no steps")

// Script is a named sequence of runs loaded from YAML:
//
//	name: tour
//	steps:
//	  - source: inner
//	    ticks: 2000
//	  - source: random:7
//	    dt: 600
//	    save_as: random7.txt
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Zero settings fall back to the scenario's suggestion,
// then to the script defaults passed to RunScript.
type Step struct {
	Source      string  `yaml:"source"`
	Dt          float64 `yaml:"dt"`
	Ticks       int     `yaml:"ticks"`
	SampleEvery int     `yaml:"sample_every"`
	Bound       float64 `yaml:"bound"`
	SaveAs      string  `yaml:"save_as"`
}

// StepResult is the outcome of one script step. Final holds the bodies
// after the run.
type StepResult struct {
	Step     Step
	Scenario string
	Config   sim.Config
	Result   *sim.Result
	Final    *cosmos.Registry
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s: %w", path, ErrEmptyScript)
	}
	for i, st := range script.Steps {
		if st.Source == "" {
			return nil, fmt.Errorf("script %s: step %d: missing source", path, i+1)
		}
	}

	return &script, nil
}

// RunScript executes the steps in order and stops at the first failing
// step, returning the results gathered so far. Progress lines go to out.
func RunScript(ctx context.Context, script *Script, src experiment.Sources, defaults experiment.Config, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		fmt.Fprintf(out, "step %d/%d: %s\n", i+1, len(script.Steps), step.Source)

		scn, err := src.Resolve(step.Source)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(scn, stepConfig(step, scn, defaults))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		for _, e := range result.Errors {
			cmdutil.Warnf(out, src.Quiet, "step %d: %v", i+1, e)
		}

		if step.SaveAs != "" {
			if err := spacefile.Save(step.SaveAs, scn.Registry.Bodies()); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, StepResult{
			Step:     step,
			Scenario: scn.Name,
			Config:   exp.SimConfig(),
			Result:   result,
			Final:    scn.Registry,
		})
	}

	return results, nil
}

func stepConfig(step Step, scn *experiment.Scenario, defaults experiment.Config) experiment.Config {
	cfg := defaults
	if scn.Dt > 0 {
		cfg.Dt = scn.Dt
	}
	if scn.Ticks > 0 {
		cfg.Ticks = scn.Ticks
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Ticks > 0 {
		cfg.Ticks = step.Ticks
	}
	if step.SampleEvery > 0 {
		cfg.SampleEvery = step.SampleEvery
	}
	if step.Bound > 0 {
		cfg.Bound = step.Bound
	}
	return cfg
}

// MonteCarloConfig perturbs every initial position by up to Perturbation
// meters along each axis.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Dt           float64
	Ticks        int
	// Bound is the stability radius; zero derives it from the base system.
	Bound float64
	Seed  uint64
}

type MonteCarloResult struct {
	TrialID int
	// MaxOffset is the largest initial displacement applied to any body.
	MaxOffset     float64
	MinSeparation float64
	Stable        bool
	Errors        int
}

// RunMonteCarlo runs NumTrials perturbed copies of base. base itself is
// never modified. A trial is stable when every sample stayed within the
// bound and no invalid state occurred.
func RunMonteCarlo(ctx context.Context, base *cosmos.Registry, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 || !(cfg.Perturbation >= 0) {
		return nil, fmt.Errorf("automation: trials must be positive and perturbation non-negative")
	}

	bound := cfg.Bound
	if bound <= 0 {
		bound = experiment.DefaultBoundFactor * experiment.Extent(base.Views())
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		reg := base.Clone()
		maxOffset := 0.0
		for _, b := range reg.Bodies() {
			d := r2.Vec{
				X: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
				Y: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
			}
			maxOffset = math.Max(maxOffset, r2.Norm(d))
			b.ApplyStep(r2.Add(b.Pos(), d), b.Vel())
		}

		exp := experiment.New(&experiment.Scenario{Name: fmt.Sprintf("trial-%d", trial), Registry: reg},
			experiment.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, SampleEvery: 1, Bound: bound})
		if err := exp.Setup(); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:       trial,
			MaxOffset:     maxOffset,
			MinSeparation: result.Metrics["min_separation"],
			Stable:        len(result.Errors) == 0 && result.Metrics["stability"] == 1,
			Errors:        len(result.Errors),
		})
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
