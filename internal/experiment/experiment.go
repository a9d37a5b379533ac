package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/sim"
)

// DefaultBoundFactor scales the initial extent of a system into the
// stability bound.
const DefaultBoundFactor = 10.0

type Config struct {
	Dt          float64
	Ticks       int
	SampleEvery int
	// Bound is the stability radius. Zero derives it from the initial
	// extent of the bodies.
	Bound float64
}

// Experiment runs one scenario with the default metric set.
type Experiment struct {
	cfg       Config
	scn       *Scenario
	simulator *sim.Simulator
}

func New(scn *Scenario, cfg Config) *Experiment {
	return &Experiment{cfg: cfg, scn: scn}
}

func (e *Experiment) Setup() error {
	if e.scn == nil || e.scn.Registry == nil || e.scn.Registry.Len() == 0 {
		return fmt.Errorf("experiment: scenario has no bodies")
	}
	bound := e.cfg.Bound
	if bound <= 0 {
		bound = DefaultBoundFactor * Extent(e.scn.Registry.Views())
	}

	e.simulator = sim.New(e.scn.Registry, nil, nil)
	for _, m := range metrics.Default(bound) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Ticks:         e.cfg.Ticks,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}
