package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

func newPlanet(t *testing.T, mass float64, pos, vel r2.Vec) *cosmos.Body {
	t.Helper()
	b, err := cosmos.NewBody(cosmos.Spec{Kind: cosmos.Planet, Mass: mass, Pos: pos, Vel: vel})
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestEuler_ZeroForceIsUniformMotion(t *testing.T) {
	tests := []struct {
		pos, vel r2.Vec
		dt       float64
	}{
		{r2.Vec{}, r2.Vec{X: 1, Y: 2}, 1},
		{r2.Vec{X: 5, Y: -3}, r2.Vec{X: -0.5, Y: 0.25}, 0.1},
		{r2.Vec{X: 1e11}, r2.Vec{Y: 3e4}, 3600},
	}

	integ := NewEuler()
	for _, tt := range tests {
		b := newPlanet(t, 7, tt.pos, tt.vel)
		integ.Advance(b, r2.Vec{}, tt.dt)

		if b.Vel() != tt.vel {
			t.Errorf("velocity changed under zero force: %v -> %v", tt.vel, b.Vel())
		}
		want := r2.Vec{X: tt.pos.X + tt.vel.X*tt.dt, Y: tt.pos.Y + tt.vel.Y*tt.dt}
		if b.Pos() != want {
			t.Errorf("position = %v, want %v", b.Pos(), want)
		}
	}
}

func TestEuler_HalfStepPosition(t *testing.T) {
	b := newPlanet(t, 2, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 1})
	f := r2.Vec{X: 4, Y: -2}
	dt := 0.5

	NewEuler().Advance(b, f, dt)

	ax, ay := 2.0, -1.0
	wantPos := r2.Vec{X: 1 + 0*dt + 0.5*ax*dt*dt, Y: 1 + 1*dt + 0.5*ay*dt*dt}
	wantVel := r2.Vec{X: ax * dt, Y: 1 + ay*dt}

	if math.Abs(b.Pos().X-wantPos.X) > 1e-15 || math.Abs(b.Pos().Y-wantPos.Y) > 1e-15 {
		t.Errorf("position = %v, want %v", b.Pos(), wantPos)
	}
	if math.Abs(b.Vel().X-wantVel.X) > 1e-15 || math.Abs(b.Vel().Y-wantVel.Y) > 1e-15 {
		t.Errorf("velocity = %v, want %v", b.Vel(), wantVel)
	}
}

func TestEuler_ConstantForceMatchesKinematics(t *testing.T) {
	// With a constant force the half-step term makes Euler exact.
	b := newPlanet(t, 1, r2.Vec{}, r2.Vec{})
	f := r2.Vec{X: 1}
	dt := 0.01
	steps := 100

	integ := NewEuler()
	for i := 0; i < steps; i++ {
		integ.Advance(b, f, dt)
	}

	T := float64(steps) * dt
	if math.Abs(b.Pos().X-0.5*T*T) > 1e-9 {
		t.Errorf("position error too large: got %.9f, expected %.9f", b.Pos().X, 0.5*T*T)
	}
	if math.Abs(b.Vel().X-T) > 1e-9 {
		t.Errorf("velocity error too large: got %.9f, expected %.9f", b.Vel().X, T)
	}
}
