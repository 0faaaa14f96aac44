// Package carousel implements an infinite-loop carousel as a rendering-free
// state machine.
//
// The engine lays out three copies of its items back to back and keeps the
// settled window inside the middle copy. A step animates one slide in either
// direction; once the renderer reports that the track's transition finished,
// the engine jumps without animation to the equivalent slide in the middle
// copy. The jump happens while nothing is moving, so the user never sees the
// list wrap.
//
// The engine never touches a screen. Every operation returns the Transform the
// renderer must apply, and the renderer reports completion back through
// TransitionEnd. While a step is animating the engine is locked and further
// steps are ignored, so at most one transition is ever in flight.
//
// An Engine is not safe for concurrent use; drive it from a single UI loop.
package carousel
