package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func mustBody(t *testing.T, s cosmos.Spec) *cosmos.Body {
	t.Helper()
	b, err := cosmos.NewBody(s)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func starAndPlanet(t *testing.T) (*cosmos.Body, *cosmos.Body) {
	star := mustBody(t, cosmos.Spec{Kind: cosmos.Star, Mass: 1000})
	planet := mustBody(t, cosmos.Spec{
		Kind: cosmos.Planet,
		Mass: 1,
		Pos:  r2.Vec{X: 10},
		Vel:  r2.Vec{Y: 1},
	})
	return star, planet
}

func TestStep_StarPlanetScenario(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	s.Step(1)

	f := s.Forces()
	want := physics.G * 1000 * 1 / 100

	if math.Abs(f[1].X+want)/want > 1e-9 {
		t.Errorf("planet Fx = %v, want %v", f[1].X, -want)
	}
	if math.Abs(f[0].X-want)/want > 1e-9 {
		t.Errorf("star Fx = %v, want %v", f[0].X, want)
	}

	// planet: a = F/m
	ax := f[1].X / 1
	ay := f[1].Y / 1
	wantPos := r2.Vec{X: 10 + 0.5*ax, Y: 1 + 0.5*ay}
	wantVel := r2.Vec{X: ax, Y: 1 + ay}
	if planet.Pos() != wantPos {
		t.Errorf("planet position = %v, want %v", planet.Pos(), wantPos)
	}
	if planet.Vel() != wantVel {
		t.Errorf("planet velocity = %v, want %v", planet.Vel(), wantVel)
	}

	// star: a = F/1000
	sax := f[0].X / 1000
	if math.Abs(star.Pos().X-0.5*sax) > 1e-30 || math.Abs(star.Vel().X-sax) > 1e-30 {
		t.Errorf("star moved to %v with velocity %v", star.Pos(), star.Vel())
	}
	if s.Tick() != 1 || s.Time() != 1 {
		t.Errorf("tick/time = %d/%v", s.Tick(), s.Time())
	}
}

func TestStep_ForcesUsePreStepPositions(t *testing.T) {
	// Whatever the registry order, every force must come from the state at
	// the start of the tick.
	build := func(reverse bool) *cosmos.Registry {
		star := mustBody(t, cosmos.Spec{Kind: cosmos.Star, Mass: 1e12, Vel: r2.Vec{X: 3}})
		planet := mustBody(t, cosmos.Spec{Kind: cosmos.Planet, Mass: 5, Pos: r2.Vec{X: 10, Y: 2}, Vel: r2.Vec{Y: -4}})
		if reverse {
			return cosmos.NewRegistry(planet, star)
		}
		return cosmos.NewRegistry(star, planet)
	}

	fwd := build(false)
	rev := build(true)
	sf := New(fwd, nil, nil)
	sr := New(rev, nil, nil)

	for i := 0; i < 5; i++ {
		sf.Step(0.1)
		sr.Step(0.1)
	}

	if fwd.At(0).Pos() != rev.At(1).Pos() || fwd.At(1).Pos() != rev.At(0).Pos() {
		t.Errorf("result depends on iteration order: %v/%v vs %v/%v",
			fwd.At(0).Pos(), fwd.At(1).Pos(), rev.At(1).Pos(), rev.At(0).Pos())
	}
}

func TestStep_ForcesResetEachTick(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	s.Step(1)
	first := s.Forces()[1]
	s.Step(1)
	second := s.Forces()[1]

	// a stale accumulator would double the force
	if math.Abs(second.X) > 1.5*math.Abs(first.X) {
		t.Errorf("force accumulated across ticks: %v then %v", first, second)
	}
}

func TestStep_UniformMotionWithoutInteractions(t *testing.T) {
	a := mustBody(t, cosmos.Spec{Kind: cosmos.Planet, Mass: 1, Vel: r2.Vec{X: 2, Y: -1}})
	b := mustBody(t, cosmos.Spec{Kind: cosmos.Planet, Mass: 1, Pos: r2.Vec{X: 1}})
	s := New(cosmos.NewRegistry(a, b), nil, nil)

	s.Step(0.5)

	if a.Pos() != (r2.Vec{X: 1, Y: -0.5}) || a.Vel() != (r2.Vec{X: 2, Y: -1}) {
		t.Errorf("planet-planet pair must not interact: pos %v vel %v", a.Pos(), a.Vel())
	}
}

func TestSimulatorRun(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	cfg := Config{Dt: 0.1, Ticks: 10, SampleEvery: 5}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.TicksTaken != 10 {
		t.Errorf("expected 10 ticks, got %d", result.TicksTaken)
	}
	// initial frame + ticks 5 and 10
	if len(result.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(result.Frames))
	}
	last := result.Frames[len(result.Frames)-1]
	if last.Tick != 10 || math.Abs(last.Time-1.0) > 1e-12 {
		t.Errorf("last frame tick=%d time=%v", last.Tick, last.Time)
	}
	if len(last.Bodies) != 2 || last.Bodies[1].Kind != cosmos.Planet {
		t.Errorf("frame bodies = %+v", last.Bodies)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero dt", Config{Dt: 0, Ticks: 10}, ErrInvalidDt},
		{"negative dt", Config{Dt: -0.1, Ticks: 10}, ErrInvalidDt},
		{"NaN dt", Config{Dt: math.NaN(), Ticks: 10}, ErrInvalidDt},
		{"zero ticks", Config{Dt: 0.1, Ticks: 0}, ErrInvalidTicks},
		{"negative ticks", Config{Dt: 0.1, Ticks: -1}, ErrInvalidTicks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, Config{Dt: 1, Ticks: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.TicksTaken != 0 {
		t.Errorf("expected no ticks after cancel, got %d", res.TicksTaken)
	}
}

type blowUp struct{}

func (blowUp) Resolve(bodies []*cosmos.Body, out []r2.Vec) {
	for i := range out {
		out[i] = r2.Vec{X: math.Inf(1)}
	}
}

func TestSimulatorValidateState(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), blowUp{}, nil)

	res, err := s.Run(context.Background(), Config{Dt: 1, Ticks: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
	var se SimError
	if !errors.As(res.Errors[0], &se) || se.Tick != 1 {
		t.Errorf("unexpected error %v", res.Errors[0])
	}
	if res.TicksTaken != 1 {
		t.Errorf("expected run to stop after 1 tick, got %d", res.TicksTaken)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string    { return "count" }
func (c *countMetric) Observe(f Frame) { c.count++ }
func (c *countMetric) Value() float64  { return float64(c.count) }
func (c *countMetric) Reset()          { c.count = 0 }

type recorder struct {
	ticks []int
}

func (r *recorder) OnStep(f Frame) { r.ticks = append(r.ticks, f.Tick) }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	star, planet := starAndPlanet(t)
	s := New(cosmos.NewRegistry(star, planet), nil, nil)

	metric := &countMetric{}
	rec := &recorder{}
	s.AddMetric(metric)
	s.AddObserver(rec)

	result, err := s.Run(context.Background(), Config{Dt: 1, Ticks: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 4 {
		t.Errorf("expected 4 observations, got %v", result.Metrics["count"])
	}
	if len(rec.ticks) != 4 || rec.ticks[0] != 1 || rec.ticks[3] != 4 {
		t.Errorf("observer saw ticks %v", rec.ticks)
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Tick: 150, Message: "test error"}
	expected := "tick 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}
