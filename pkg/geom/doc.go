// Package geom provides the integer geometry used by the freeboard layout engine.
//
// All coordinates are canvas-space integer units. The origin is the top-left
// corner of the canvas, x grows to the right and y grows downward. A [Canvas]
// has a fixed width and an unbounded height.
//
// # Collision Model
//
// Two rectangles overlap only when their intersection has a non-zero area.
// Rectangles that share an edge do not overlap:
//
//	a := geom.Rect{X: 20, Y: 20, W: 100, H: 100}
//	b := geom.Rect{X: 120, Y: 20, W: 100, H: 100}
//	geom.Overlaps(a, b) // false, the rectangles touch at x=120
//
// [PushVector] computes the smallest single-axis translation that moves a
// target rectangle out of a dragged one. It is a greedy local choice used by
// package push, not a global optimum.
package geom
