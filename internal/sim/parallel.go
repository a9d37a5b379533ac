package sim

import (
	"context"

	"github.com/san-kum/solarsim/internal/cosmos"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent copies of one registry, one per timestep.
// Each member simulation is single-threaded and owns its cloned registry.
type Ensemble struct {
	base       *cosmos.Registry
	dts        []float64
	newMetrics func() []Metric
}

func NewEnsemble(base *cosmos.Registry, dts []float64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{base: base, dts: dts, newMetrics: newMetrics}
}

// Member is the outcome of one ensemble run.
type Member struct {
	Dt       float64
	Result   *Result
	Registry *cosmos.Registry
}

// Run simulates the same span of time, cfg.Ticks·cfg.Dt, with every dt.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]Member, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	span := cfg.Dt * float64(cfg.Ticks)
	members := make([]Member, len(e.dts))

	g, ctx := errgroup.WithContext(ctx)
	for i, dt := range e.dts {
		i, dt := i, dt
		g.Go(func() error {
			reg := e.base.Clone()
			s := New(reg, nil, nil)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			c := cfg
			c.Dt = dt
			c.Ticks = int(span/dt + 0.5)
			if c.Ticks < 1 {
				c.Ticks = 1
			}

			res, err := s.Run(ctx, c)
			if err != nil {
				return err
			}
			members[i] = Member{Dt: dt, Result: res, Registry: reg}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}
