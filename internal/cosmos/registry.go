package cosmos

import "gonum.org/v1/gonum/spatial/r2"

// Registry is the ordered sequence of simulated bodies. Order is insertion
// order and only matters for output determinism.
type Registry struct {
	bodies []*Body
}

func NewRegistry(bodies ...*Body) *Registry {
	r := &Registry{bodies: make([]*Body, 0, len(bodies))}
	for _, b := range bodies {
		r.Add(b)
	}
	return r
}

func (r *Registry) Add(b *Body) {
	r.bodies = append(r.bodies, b)
}

func (r *Registry) Len() int       { return len(r.bodies) }
func (r *Registry) At(i int) *Body { return r.bodies[i] }

// Bodies returns the backing slice; callers must not reorder it.
func (r *Registry) Bodies() []*Body { return r.bodies }

// Clone deep-copies every body so the copy can be stepped independently.
func (r *Registry) Clone() *Registry {
	c := &Registry{bodies: make([]*Body, len(r.bodies))}
	for i, b := range r.bodies {
		c.bodies[i] = b.Clone()
	}
	return c
}

// View is what a renderer needs to draw one body.
type View struct {
	Kind     Kind
	Mass     float64
	Pos      r2.Vec
	Vel      r2.Vec
	Radius   int
	Color    string
	Relation string
}

func (r *Registry) Views() []View {
	views := make([]View, len(r.bodies))
	for i, b := range r.bodies {
		views[i] = View{
			Kind:     b.kind,
			Mass:     b.mass,
			Pos:      b.pos,
			Vel:      b.vel,
			Radius:   b.radius,
			Color:    b.color,
			Relation: b.relation,
		}
	}
	return views
}

// Count returns the number of bodies of kind k.
func (r *Registry) Count(k Kind) int {
	n := 0
	for _, b := range r.bodies {
		if b.kind == k {
			n++
		}
	}
	return n
}
