// Package push resolves overlaps caused by moving or resizing one widget.
//
// [Resolver.TryPush] takes the rectangle a widget is about to occupy and the
// current instance set, and computes a new position for every instance that
// has to move so that nothing overlaps. Targets hit directly by the moving
// rectangle are pushed along [geom.PushVector]; a pushed target that now hits
// another instance pushes it in turn, recursively.
//
// # Failure
//
// Resolution fails, and TryPush returns ok == false, when:
//   - a pushed instance would leave the canvas (left/top padding or right edge)
//   - the cascade would need more than MaxDepth levels (default 5)
//   - the combined result still contains an overlap, which can happen when
//     two cascades push into each other
//
// Failure is a normal outcome; the interaction controllers revert the gesture.
//
// # Determinism
//
// TryPush is a pure function of its inputs. Colliding targets are visited in
// ascending InstanceID order, which is the tie-break when several greedy
// resolutions exist.
package push
