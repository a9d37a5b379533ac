// Package scenario builds random systems of stars, planets and satellites
// on near-circular orbits.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/physics"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrInvalidOptions = errors.New("scenario: invalid options")

var palette = []string{"blue", "red", "green", "cyan", "magenta", "white", "gray"}

type Options struct {
	Seed    uint64
	Systems int
	// Planets per system.
	Planets int
	// MoonChance is the probability that a planet gets one satellite.
	MoonChance float64
	// Spacing separates the system centers along x.
	Spacing float64
	// OrbitStep is the mean radial gap between consecutive planet orbits.
	OrbitStep float64
}

func DefaultOptions() Options {
	return Options{
		Seed:       1,
		Systems:    1,
		Planets:    4,
		MoonChance: 0.5,
		Spacing:    2e12,
		OrbitStep:  5e10,
	}
}

func (o Options) validate() error {
	switch {
	case o.Systems <= 0:
		return fmt.Errorf("%w: systems must be positive", ErrInvalidOptions)
	case o.Planets < 0:
		return fmt.Errorf("%w: planets must not be negative", ErrInvalidOptions)
	case o.MoonChance < 0 || o.MoonChance > 1:
		return fmt.Errorf("%w: moon chance must be in [0, 1]", ErrInvalidOptions)
	case !(o.OrbitStep > 0):
		return fmt.Errorf("%w: orbit step must be positive", ErrInvalidOptions)
	case o.Systems > 1 && !(o.Spacing > 0):
		return fmt.Errorf("%w: spacing must be positive", ErrInvalidOptions)
	}
	return nil
}

// Generate is deterministic for a given Options value. Each system gets
// its own system tag; each planet gets its own primary constellation which
// its satellite shares.
func Generate(opts Options) (*cosmos.Registry, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(opts.Seed))
	reg := cosmos.NewRegistry()

	for s := 0; s < opts.Systems; s++ {
		system := cosmos.SystemID(fmt.Sprintf("s%d", s))
		center := r2.Vec{X: float64(s) * opts.Spacing}
		starMass := 1e30 * (0.5 + rnd.Float64())

		star, err := cosmos.NewBody(cosmos.Spec{
			Kind:   cosmos.Star,
			Radius: 10 + rnd.Intn(5),
			Color:  "yellow",
			Mass:   starMass,
			Pos:    center,
			Group:  cosmos.Group{System: system, Constellation: cosmos.NoConstellation},
		})
		if err != nil {
			return nil, err
		}
		reg.Add(star)

		for p := 0; p < opts.Planets; p++ {
			con := cosmos.Constellation(fmt.Sprintf("%s%d", cosmos.PrimaryPrefix, p))
			r := opts.OrbitStep * float64(p+1) * (0.9 + 0.2*rnd.Float64())
			theta := 2 * math.Pi * rnd.Float64()
			dir := r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
			tangent := r2.Vec{X: -dir.Y, Y: dir.X}
			speed := math.Sqrt(physics.G * starMass / r)

			planetMass := 1e24 * (0.1 + 5*rnd.Float64())
			planet, err := cosmos.NewBody(cosmos.Spec{
				Kind:   cosmos.Planet,
				Radius: 2 + rnd.Intn(4),
				Color:  palette[rnd.Intn(len(palette))],
				Mass:   planetMass,
				Pos:    r2.Add(center, r2.Scale(r, dir)),
				Vel:    r2.Scale(speed, tangent),
				Group:  cosmos.Group{System: system, Constellation: con},
			})
			if err != nil {
				return nil, err
			}
			reg.Add(planet)

			if rnd.Float64() >= opts.MoonChance {
				continue
			}
			moon, err := satellite(rnd, planet, system, con)
			if err != nil {
				return nil, err
			}
			reg.Add(moon)
		}
	}

	return reg, nil
}

// satellite places a moon on a circular orbit around planet held by the
// constant binding force: m·v²/d = F.
func satellite(rnd *rand.Rand, planet *cosmos.Body, system cosmos.SystemID, con cosmos.Constellation) (*cosmos.Body, error) {
	mass := 1e22 * (0.5 + rnd.Float64())
	d := 4e8 * (0.8 + 0.4*rnd.Float64())
	phi := 2 * math.Pi * rnd.Float64()
	dir := r2.Vec{X: math.Cos(phi), Y: math.Sin(phi)}
	tangent := r2.Vec{X: -dir.Y, Y: dir.X}
	speed := math.Sqrt(physics.BindingForce * d / mass)

	return cosmos.NewBody(cosmos.Spec{
		Kind:   cosmos.Satellite,
		Radius: 1,
		Color:  "gray",
		Mass:   mass,
		Pos:    r2.Add(planet.Pos(), r2.Scale(d, dir)),
		Vel:    r2.Add(planet.Vel(), r2.Scale(speed, tangent)),
		Group:  cosmos.Group{System: system, Constellation: con},
	})
}
