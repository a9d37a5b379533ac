package sim

import (
	"fmt"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances one body over dt given the force accumulated for it
// in the current tick.
type Integrator interface {
	Advance(b *cosmos.Body, f r2.Vec, dt float64)
}

// ForceResolver writes the net force on bodies[i] into out[i].
type ForceResolver interface {
	Resolve(bodies []*cosmos.Body, out []r2.Vec)
}

// Frame is the per-tick snapshot handed to renderers, observers and metrics.
type Frame struct {
	Tick   int
	Time   float64
	Bodies []cosmos.View
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt            float64
	Ticks         int
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            3600,
		Ticks:         24 * 365,
		SampleEvery:   24,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	TicksTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}
