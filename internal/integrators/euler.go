package integrators

import (
	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler is the explicit Euler scheme with a half-step position term:
//
//	x += v·dt + ½·a·dt²
//	v += a·dt
//
// Zero force gives uniform motion; the scheme cannot tell a stale force
// from a real one.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(b *cosmos.Body, f r2.Vec, dt float64) {
	m := b.Mass()
	a := r2.Vec{X: f.X / m, Y: f.Y / m}
	pos, vel := b.Pos(), b.Vel()

	pos.X += vel.X*dt + 0.5*a.X*dt*dt
	pos.Y += vel.Y*dt + 0.5*a.Y*dt*dt
	vel.X += a.X * dt
	vel.Y += a.Y * dt

	b.ApplyStep(pos, vel)
}
