package physics

import (
	"math"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// G is Newton's gravitational constant.
	G = 6.67408e-11

	// BindingForce is the constant magnitude binding a planet and its
	// satellites inside one constellation, independent of mass and distance.
	BindingForce = 3.5433230893149516e+22
)

// Interaction is the outcome of classifying a directed pair of bodies.
type Interaction int

const (
	None Interaction = iota
	Suppressed
	Binding
	Newtonian
)

func (i Interaction) String() string {
	switch i {
	case Suppressed:
		return "suppressed"
	case Binding:
		return "binding"
	case Newtonian:
		return "newtonian"
	default:
		return "none"
	}
}

type rule struct {
	outcome Interaction
	match   func(p cosmos.KindPair, self, other cosmos.Group) bool
}

// cascade is evaluated top to bottom; the first matching rule wins.
var cascade = []rule{
	{Suppressed, suppressed},
	{Binding, binding},
	{Newtonian, newtonian},
}

func suppressed(p cosmos.KindPair, self, other cosmos.Group) bool {
	return !self.SameSystem(other) ||
		conflicting(self.Constellation, other.Constellation) ||
		p.Is(cosmos.Satellite, cosmos.Star)
}

func binding(p cosmos.KindPair, self, other cosmos.Group) bool {
	return self.SameSystem(other) && self.SameConstellation(other) && p.Is(cosmos.Planet, cosmos.Satellite)
}

func newtonian(p cosmos.KindPair, self, other cosmos.Group) bool {
	if !self.SameSystem(other) || !p.Is(cosmos.Planet, cosmos.Star) {
		return false
	}
	return !self.SameConstellation(other) && (self.Constellation.IsNone() || other.Constellation.IsNone())
}

// conflicting reports differing tags where a tagged body faces a primary,
// seen from self.
func conflicting(self, other cosmos.Constellation) bool {
	if self == other {
		return false
	}
	return (!self.IsNone() && other.IsPrimary()) || (self.IsPrimary() && !other.IsNone())
}

// Classify selects the interaction self feels from other. It is evaluated
// per directed pair and is not assumed symmetric.
func Classify(self, other *cosmos.Body) Interaction {
	if self == other {
		return None
	}
	p := cosmos.PairOf(self, other)
	if p.Same() {
		return None
	}
	a, b := self.Group(), other.Group()
	for _, r := range cascade {
		if r.match(p, a, b) {
			return r.outcome
		}
	}
	return None
}

// Resolver accumulates the net force on every body from every other body.
type Resolver struct {
	G       float64
	Binding float64
}

func NewResolver() *Resolver {
	return &Resolver{G: G, Binding: BindingForce}
}

// Magnitude returns the scalar force of an interaction at distance r.
func (res *Resolver) Magnitude(in Interaction, self, other *cosmos.Body, r float64) float64 {
	switch in {
	case Binding:
		return res.Binding
	case Newtonian:
		return res.G * self.Mass() * other.Mass() / (r * r)
	default:
		return 0
	}
}

// ForceOn sums the contributions of every other body on self.
func (res *Resolver) ForceOn(self *cosmos.Body, bodies []*cosmos.Body) r2.Vec {
	var f r2.Vec
	for _, other := range bodies {
		if other == self || other.Kind() == self.Kind() {
			continue
		}
		d := r2.Sub(other.Pos(), self.Pos())
		r := math.Sqrt(d.X*d.X + d.Y*d.Y)
		if r == 0 {
			continue
		}
		mag := res.Magnitude(Classify(self, other), self, other, r)
		if mag == 0 {
			continue
		}
		theta := math.Atan2(d.Y, d.X)
		f.X += mag * math.Cos(theta)
		f.Y += mag * math.Sin(theta)
	}
	return f
}

// Resolve writes the net force on bodies[i] into out[i]. out is cleared
// first and must have len(bodies) entries. Bodies are not mutated.
func (res *Resolver) Resolve(bodies []*cosmos.Body, out []r2.Vec) {
	for i := range out {
		out[i] = r2.Vec{}
	}
	for i, self := range bodies {
		out[i] = res.ForceOn(self, bodies)
	}
}
