package cosmos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultColor is used when a body is built without a display color.
const DefaultColor = "white"

// Spec carries the constructor arguments of a Body. Empty group tags take
// the defaults of DefaultGroup(Kind); an empty Relation defaults to the
// constellation tag.
type Spec struct {
	Kind     Kind
	Radius   int
	Color    string
	Mass     float64
	Pos      r2.Vec
	Vel      r2.Vec
	Group    Group
	Relation string
}

// Body is a simulated point mass with planar kinematics.
type Body struct {
	kind     Kind
	radius   int
	color    string
	mass     float64
	pos      r2.Vec
	vel      r2.Vec
	group    Group
	relation string
}

func NewBody(s Spec) (*Body, error) {
	if !s.Kind.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, s.Kind)
	}
	if !(s.Mass > 0) || math.IsInf(s.Mass, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveMass, s.Mass)
	}
	if s.Radius < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, s.Radius)
	}
	if !finite(s.Pos) || !finite(s.Vel) {
		return nil, ErrInvalidState
	}

	g := s.Group
	if g.System == "" {
		g.System = DefaultSystem
	}
	if g.Constellation == "" {
		g.Constellation = DefaultConstellation(s.Kind)
	}
	g, err := NewGroup(g.System, g.Constellation)
	if err != nil {
		return nil, err
	}

	color := s.Color
	if color == "" {
		color = DefaultColor
	}

	rel := s.Relation
	if rel == "" {
		rel = string(g.Constellation)
	}

	return &Body{
		kind:     s.Kind,
		radius:   s.Radius,
		color:    color,
		mass:     s.Mass,
		pos:      s.Pos,
		vel:      s.Vel,
		group:    g,
		relation: rel,
	}, nil
}

func (b *Body) Kind() Kind                   { return b.kind }
func (b *Body) Radius() int                  { return b.radius }
func (b *Body) Color() string                { return b.color }
func (b *Body) Mass() float64                { return b.mass }
func (b *Body) Pos() r2.Vec                  { return b.pos }
func (b *Body) Vel() r2.Vec                  { return b.vel }
func (b *Body) Group() Group                 { return b.group }
func (b *Body) System() SystemID             { return b.group.System }
func (b *Body) Constellation() Constellation { return b.group.Constellation }

// Relation is the display/grouping tag written as the last output field. It
// is owned by the application and never read by the physics.
func (b *Body) Relation() string { return b.relation }

func (b *Body) SetRelation(rel string) {
	b.relation = rel
}

// ApplyStep replaces the kinematic state. It is the only mutation entry
// point for position and velocity.
func (b *Body) ApplyStep(pos, vel r2.Vec) {
	b.pos = pos
	b.vel = vel
}

func (b *Body) Valid() bool {
	return finite(b.pos) && finite(b.vel)
}

// Clone returns an independent copy with a new identity.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) Spec() Spec {
	return Spec{
		Kind:     b.kind,
		Radius:   b.radius,
		Color:    b.color,
		Mass:     b.mass,
		Pos:      b.pos,
		Vel:      b.vel,
		Group:    b.group,
		Relation: b.relation,
	}
}

func (b *Body) String() string {
	return fmt.Sprintf("%s(m=%g pos=(%g,%g) vel=(%g,%g) %s)",
		b.kind, b.mass, b.pos.X, b.pos.Y, b.vel.X, b.vel.Y, b.group)
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
