// Package interact implements the pointer gestures that move and resize
// widget instances, the focus mode that enlarges one of them, and the
// mounting of widget bodies.
//
// # Gestures
//
// A [Coordinator] owns the single active-gesture slot. A gesture runs
//
//	Idle -> Dragging|Resizing -> Committed|Reverted -> Idle
//
// Press starts it, every Move produces a [Preview] computed by the push
// resolver, and Release either commits the last feasible preview to the
// layout store in one batch or reverts every instance to its pre-gesture
// rectangle. Previews never touch the store: they are handed to a
// [Presenter], the only code that applies tentative positions to visible
// output.
//
// # Focus
//
// [Focus] toggles one instance at a time into an enlarged view bound to the
// same settings map as its normal view.
package interact
