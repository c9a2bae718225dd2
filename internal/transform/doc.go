// Package transform converts a normalized anchor selection into an anchor and
// compensating position update for each selected object.
//
// All functions are pure: geometry is passed in by value and results are
// returned, never cached. Angles are in degrees, scales in percent, and the
// y axis points down as in the host's layer space.
//
// The anchor lives in the object's local space. Moving it alone would shift
// the object on screen, so every update carries a position delta obtained by
// pushing the anchor delta through the object's rotation and scale.
package transform
