package integrators

import (
	"testing"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	body, err := cosmos.NewBody(cosmos.Spec{
		Kind: cosmos.Planet,
		Mass: 5.9742e24,
		Pos:  r2.Vec{X: 1.496e11},
		Vel:  r2.Vec{Y: 29783},
	})
	if err != nil {
		b.Fatal(err)
	}
	f := r2.Vec{X: -3.5e22}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Advance(body, f, 1)
	}
}

func BenchmarkEuler_System(b *testing.B) {
	integrator := NewEuler()
	bodies := make([]*cosmos.Body, 64)
	for i := range bodies {
		body, err := cosmos.NewBody(cosmos.Spec{
			Kind: cosmos.Planet,
			Mass: 1e24,
			Pos:  r2.Vec{X: float64(i) * 1e10},
			Vel:  r2.Vec{Y: 3e4},
		})
		if err != nil {
			b.Fatal(err)
		}
		bodies[i] = body
	}
	f := r2.Vec{X: 1e20, Y: -1e20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, body := range bodies {
			integrator.Advance(body, f, 1)
		}
	}
}
