// Package cosmos holds the simulated bodies and the registry that orders them.
//
// A [Body] is a planar point mass of one [Kind] (Star, Planet or Satellite)
// tagged with a [Group]: a system identifier partitioning bodies into
// independent gravitational clusters, and a constellation tag sub-grouping
// bodies inside a system.
//
//	star, _ := cosmos.NewBody(cosmos.Spec{Kind: cosmos.Star, Mass: 1000})
//	reg := cosmos.NewRegistry()
//	reg.Add(star)
//
// Bodies expose their kinematic state read-only. During a run the step driver
// in package sim is the only writer and goes through [Body.ApplyStep].
package cosmos
