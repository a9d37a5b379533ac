package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Energy is the mean total kinetic energy over the observed frames.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.total += Kinetic(f.Bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// MomentumDrift is the largest deviation of total linear momentum from the
// first observed frame, relative to its magnitude when that is non-zero.
type MomentumDrift struct {
	name     string
	initial  r2.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f sim.Frame) {
	p := Momentum(f.Bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := r2.Norm(r2.Sub(p, m.initial))
	if n := r2.Norm(m.initial); n > 0 {
		drift /= n
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.maxDrift = 0
	m.samples = 0
}

// SpinDrift is the largest deviation of total angular momentum about the
// origin from the first observed frame, relative when that is non-zero.
type SpinDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewSpinDrift() *SpinDrift {
	return &SpinDrift{name: "angular_momentum_drift"}
}

func (m *SpinDrift) Name() string { return m.name }

func (m *SpinDrift) Observe(f sim.Frame) {
	l := AngularMomentum(f.Bodies)
	if m.samples == 0 {
		m.initial = l
	}
	m.samples++

	drift := math.Abs(l - m.initial)
	if m.initial != 0 {
		drift /= math.Abs(m.initial)
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *SpinDrift) Value() float64 { return m.maxDrift }

func (m *SpinDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

func Kinetic(views []cosmos.View) float64 {
	ke := 0.0
	for _, v := range views {
		ke += 0.5 * v.Mass * r2.Norm2(v.Vel)
	}
	return ke
}

func Momentum(views []cosmos.View) r2.Vec {
	var p r2.Vec
	for _, v := range views {
		p = r2.Add(p, r2.Scale(v.Mass, v.Vel))
	}
	return p
}

// AngularMomentum is the z component of the total angular momentum about
// the origin.
func AngularMomentum(views []cosmos.View) float64 {
	l := 0.0
	for _, v := range views {
		l += v.Mass * (v.Pos.X*v.Vel.Y - v.Pos.Y*v.Vel.X)
	}
	return l
}
