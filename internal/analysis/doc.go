// Package analysis extracts orbital properties from recorded trajectories.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral period estimate of a
//     sampled coordinate series
//   - [Crossings] and [CrossingPeriod]: period from upward axis crossings
//   - [Divergence]: separation growth rate of two nearby initial states
//   - [OrbitToASCII]: a terminal plot of a planar trajectory
//
// A planet orbiting a star at the origin has an x series close to a
// sinusoid, so both period estimators agree for near-circular orbits:
//
//	xs, ys := tr.Body(1)
//	period, err := analysis.DominantPeriod(xs, sampleDt)
package analysis
