// Package geom provides the immutable 2D value types used by the battle map:
// [Vec] for points and displacements, and [Rect] for axis-aligned rectangles.
//
// # Values, not objects
//
// Both types are small structs passed by value. Every operation returns a new
// value; nothing mutates its receiver, so equality is structural and values
// can be shared freely between the camera, the selection store and the
// token read model.
//
//	a := geom.V(3, 4)
//	b := a.Plus(geom.One).Times(2) // a is unchanged
//	d := a.DistanceTo(b)
//
// # IEEE-754 semantics
//
// The arithmetic does not guard against division by zero or non-finite
// input. [Vec.DividedBy] with a zero divisor yields ±Inf or NaN components and
// [Vec.Normalized] of the zero vector yields NaN components. Callers that need
// a safe direction check [Vec.Length] first.
//
// # Rectangles
//
// A [Rect] always has a non-negative size. Build one with [RectFrom] from any
// of the accepted input shapes; the [Corners] form normalizes two arbitrary
// points, so a rubber-band rectangle dragged in any direction yields the same
// rect:
//
//	r := geom.RectFrom(geom.Corners{TopLeft: geom.V(10, 10), BottomRight: geom.V(0, 0)})
//	// r.Position == (0,0), r.Size == (10,10)
//
// [Rect.Overlaps] is the strict open-interval test: rectangles that only
// share an edge do not overlap. The selection hit test relies on this rule.
package geom
