// Package grid snaps world-space vectors and rects to a scene's cell size.
//
// All functions are pure and expect cellSize > 0. A zero or negative cell
// size is not rejected here; it propagates through IEEE-754 arithmetic the
// same way the geom package does. Scene validation is the place that rejects
// it (see token.Scene.Validate).
package grid

import (
	"math"

	"github.com/matzehuels/battlemap/pkg/geom"
)

// Round snaps v to the nearest multiple of cellSize on each axis.
func Round(v geom.Vec, cellSize float64) geom.Vec { return v.RoundedTo(cellSize) }

// Floor snaps v down to a multiple of cellSize on each axis.
func Floor(v geom.Vec, cellSize float64) geom.Vec { return v.FlooredTo(cellSize) }

// Ceil snaps v up to a multiple of cellSize on each axis.
func Ceil(v geom.Vec, cellSize float64) geom.Vec { return v.CeiledTo(cellSize) }

// RoundRect snaps both corners of r to the nearest multiple.
func RoundRect(r geom.Rect, cellSize float64) geom.Rect {
	return geom.RectFrom(geom.Corners{
		TopLeft:     Round(r.TopLeft(), cellSize),
		BottomRight: Round(r.BottomRight(), cellSize),
	})
}

// SnapRectOutward floors the top-left corner and ceils the bottom-right
// corner, so the result always contains r.
func SnapRectOutward(r geom.Rect, cellSize float64) geom.Rect {
	return geom.RectFrom(geom.Corners{
		TopLeft:     Floor(r.TopLeft(), cellSize),
		BottomRight: Ceil(r.BottomRight(), cellSize),
	})
}

// SnapArea snaps a drawn rect outward and grows it to at least one cell on
// each axis.
func SnapArea(r geom.Rect, cellSize float64) geom.Rect {
	return SnapRectOutward(r, cellSize).WithMinimumSize(geom.Both(cellSize))
}

// ToCell converts a world position into integer cell coordinates.
func ToCell(v geom.Vec, cellSize float64) (col, row int) {
	c := v.DividedBy(cellSize).Floor()
	return int(c.X), int(c.Y)
}

// FromCell returns the world position of a cell's top-left corner.
func FromCell(col, row int, cellSize float64) geom.Vec {
	return geom.V(float64(col), float64(row)).Times(cellSize)
}

// Cells returns the number of whole cells spanned by length, at least one.
func Cells(length, cellSize float64) int {
	return max(1, int(math.Ceil(length/cellSize)))
}
