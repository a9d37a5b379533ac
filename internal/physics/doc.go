// Package physics resolves the forces between simulated bodies.
//
// Forces follow a curated policy rather than a uniform n-body law. For each
// directed pair (self, other) the [Classify] cascade picks one [Interaction],
// first match wins:
//
//   - [Suppressed]: different systems, conflicting constellation tags, or a
//     satellite and a star in either order
//   - [Binding]: a planet and a satellite sharing system and constellation,
//     pulled together by the constant [BindingForce]
//   - [Newtonian]: a planet and a star in one system whose tags differ with
//     one of them "no", pulled by G·m1·m2/r²
//
// Same-kind pairs and coincident positions never contribute.
//
//	res := physics.NewResolver()
//	forces := make([]r2.Vec, reg.Len())
//	res.Resolve(reg.Bodies(), forces)
package physics
