package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stability is the fraction of frames in which every body stays within
// threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	for _, b := range f.Bodies {
		if r2.Norm(b.Pos) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Separation tracks the closest approach between any two bodies.
type Separation struct {
	name string
	min  float64
}

func NewSeparation() *Separation {
	return &Separation{name: "min_separation", min: math.Inf(1)}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(f sim.Frame) {
	for i := range f.Bodies {
		for j := i + 1; j < len(f.Bodies); j++ {
			d := r2.Norm(r2.Sub(f.Bodies[i].Pos, f.Bodies[j].Pos))
			s.min = math.Min(s.min, d)
		}
	}
}

// Value is +Inf until two bodies have been observed together.
func (s *Separation) Value() float64 {
	return s.min
}

func (s *Separation) Reset() {
	s.min = math.Inf(1)
}

// Default returns the metric set used by the CLI.
func Default(bound float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewMomentumDrift(),
		NewSpinDrift(),
		NewStability(bound),
		NewSeparation(),
	}
}
