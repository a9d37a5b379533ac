package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrInvalidDt    = errors.New("sim: dt must be positive")
	ErrInvalidTicks = errors.New("sim: ticks must be positive")
)

// Simulator is the step driver. It owns the per-tick force accumulator and
// is the only writer of body kinematics. It is not safe for concurrent use.
type Simulator struct {
	reg        *cosmos.Registry
	resolver   ForceResolver
	integrator Integrator
	forces     []r2.Vec
	tick       int
	t          float64
	metrics    []Metric
	observers  []Observer
}

func New(reg *cosmos.Registry, resolver ForceResolver, integrator Integrator) *Simulator {
	if resolver == nil {
		resolver = physics.NewResolver()
	}
	if integrator == nil {
		integrator = integrators.NewEuler()
	}
	return &Simulator{
		reg:        reg,
		resolver:   resolver,
		integrator: integrator,
		forces:     make([]r2.Vec, reg.Len()),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Registry() *cosmos.Registry { return s.reg }
func (s *Simulator) Tick() int                  { return s.tick }
func (s *Simulator) Time() float64              { return s.t }

// Forces returns a copy of the accumulator from the last tick.
func (s *Simulator) Forces() []r2.Vec {
	out := make([]r2.Vec, len(s.forces))
	copy(out, s.forces)
	return out
}

// Step performs one tick: every force is resolved from the pre-step state,
// then every body is advanced. The phases never interleave.
func (s *Simulator) Step(dt float64) {
	bodies := s.reg.Bodies()
	if len(s.forces) != len(bodies) {
		s.forces = make([]r2.Vec, len(bodies))
	}

	s.resolver.Resolve(bodies, s.forces)

	for i, b := range bodies {
		s.integrator.Advance(b, s.forces[i], dt)
	}

	s.tick++
	s.t += dt
}

func (s *Simulator) Frame() Frame {
	return Frame{Tick: s.tick, Time: s.t, Bodies: s.reg.Views()}
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Ticks/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.Frame())

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		result.TicksTaken++

		if cfg.ValidateState && !s.Valid() {
			err := SimError{Time: s.t, Tick: s.tick, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		frame := s.Frame()
		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame)
		}

		if s.tick%every == 0 || i == cfg.Ticks-1 {
			result.Frames = append(result.Frames, frame)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Valid reports whether every body has a finite state.
func (s *Simulator) Valid() bool {
	for _, b := range s.reg.Bodies() {
		if !b.Valid() {
			return false
		}
	}
	return true
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w, got %f", ErrInvalidDt, cfg.Dt)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidTicks, cfg.Ticks)
	}
	return nil
}
