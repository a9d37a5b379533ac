package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Divergence estimates the exponential growth rate of the separation
// between the system and a copy whose body i is displaced by perturbation
// along x:
//
//	λ ≈ (1/T) · Σ ln(d/d0)
//
// The perturbed copy is pulled back to distance d0 whenever the separation
// exceeds renorm·d0. A positive value marks sensitive dependence on the
// initial state.
func Divergence(ctx context.Context, reg *cosmos.Registry, body int, perturbation, dt float64, ticks int) (float64, error) {
	if body < 0 || body >= reg.Len() {
		return 0, fmt.Errorf("analysis: body %d out of range", body)
	}
	if !(perturbation > 0) || !(dt > 0) || ticks <= 0 {
		return 0, fmt.Errorf("analysis: perturbation, dt and ticks must be positive")
	}
	const renorm = 1e3

	base := reg.Clone()
	pert := reg.Clone()
	b := pert.At(body)
	b.ApplyStep(r2.Add(b.Pos(), r2.Vec{X: perturbation}), b.Vel())

	a := sim.New(base, nil, nil)
	p := sim.New(pert, nil, nil)
	d0 := perturbation
	sumLog := 0.0

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		a.Step(dt)
		p.Step(dt)

		d := separation(base, pert)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, fmt.Errorf("analysis: separation diverged at tick %d", i+1)
		}
		if d > renorm*d0 {
			sumLog += math.Log(d / d0)
			scale := d0 / d
			for j, pb := range pert.Bodies() {
				ref := base.At(j)
				pos := r2.Add(ref.Pos(), r2.Scale(scale, r2.Sub(pb.Pos(), ref.Pos())))
				vel := r2.Add(ref.Vel(), r2.Scale(scale, r2.Sub(pb.Vel(), ref.Vel())))
				pb.ApplyStep(pos, vel)
			}
		}
	}

	if d := separation(base, pert); d > 0 {
		sumLog += math.Log(d / d0)
	}
	return sumLog / (float64(ticks) * dt), nil
}

func separation(a, b *cosmos.Registry) float64 {
	sum := 0.0
	for i, ab := range a.Bodies() {
		sum += r2.Norm2(r2.Sub(b.At(i).Pos(), ab.Pos()))
	}
	return math.Sqrt(sum)
}
