// Package viz renders a running simulation in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps a [sim.Simulator] on every frame tick and draws the
//     bodies on a Braille [Canvas] with a kinetic energy chart beside it
//   - [Picker]: a menu of named scenarios that opens a [Model]
//   - five color themes, cycled with T
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	F / S - Faster / slower (ticks per frame)
//	+ / - - Zoom in / out
//	A     - Fit the view to the current bodies
//	C     - Toggle orbit trails
//	?     - Show help overlay
package viz
