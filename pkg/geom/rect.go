package geom

import "fmt"

// Rect is an immutable axis-aligned rectangle. Size is never negative.
type Rect struct {
	Position Vec `json:"position" toml:"position" bson:"position"`
	Size     Vec `json:"size" toml:"size" bson:"size"`
}

// RectInput is one of the shapes accepted by RectFrom: XYWH, LTWH,
// PositionSize or Corners.
type RectInput interface {
	corners() (a, b Vec)
}

// XYWH describes a rect by its x/y position and width/height.
type XYWH struct{ X, Y, Width, Height float64 }

// LTWH describes a rect by its left/top edges and width/height.
type LTWH struct{ Left, Top, Width, Height float64 }

// PositionSize describes a rect by a position vector and a size vector.
type PositionSize struct{ Position, Size Vec }

// Corners describes a rect by two opposite corners in any order.
type Corners struct{ TopLeft, BottomRight Vec }

func (in XYWH) corners() (Vec, Vec) {
	return V(in.X, in.Y), V(in.X+in.Width, in.Y+in.Height)
}

func (in LTWH) corners() (Vec, Vec) {
	return V(in.Left, in.Top), V(in.Left+in.Width, in.Top+in.Height)
}

func (in PositionSize) corners() (Vec, Vec) {
	return in.Position, in.Position.Plus(in.Size)
}

func (in Corners) corners() (Vec, Vec) { return in.TopLeft, in.BottomRight }

// RectFrom builds a normalized Rect. Every input shape is reduced to two
// corners; the position is their component-wise minimum and the size their
// absolute difference, so a negative width or swapped corners never produce a
// negative size.
func RectFrom(in RectInput) Rect {
	a, b := in.corners()
	return Rect{Position: a.Min(b), Size: b.Minus(a).Abs()}
}

// R is shorthand for RectFrom(XYWH{x, y, w, h}).
func R(x, y, w, h float64) Rect { return RectFrom(XYWH{x, y, w, h}) }

func (r Rect) Left() float64   { return r.Position.X }
func (r Rect) Top() float64    { return r.Position.Y }
func (r Rect) Right() float64  { return r.Position.X + r.Size.X }
func (r Rect) Bottom() float64 { return r.Position.Y + r.Size.Y }
func (r Rect) Width() float64  { return r.Size.X }
func (r Rect) Height() float64 { return r.Size.Y }

// TopLeft returns the minimum corner.
func (r Rect) TopLeft() Vec { return r.Position }

// BottomRight returns the maximum corner.
func (r Rect) BottomRight() Vec { return r.Position.Plus(r.Size) }

// Center returns the midpoint of the rect.
func (r Rect) Center() Vec { return r.Position.Plus(r.Size.DividedBy(2)) }

// Overlaps is the strict open-interval test. Rects that only touch along an
// edge or a corner do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && r.Right() > o.Left() &&
		r.Top() < o.Bottom() && r.Bottom() > o.Top()
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely within r, edges included.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// WithPosition returns r moved to p.
func (r Rect) WithPosition(p Vec) Rect { return Rect{Position: p, Size: r.Size} }

// WithSize returns r resized to s, normalizing a negative size.
func (r Rect) WithSize(s Vec) Rect { return RectFrom(PositionSize{r.Position, s}) }

// WithEnd returns the rect spanning r's position and end.
func (r Rect) WithEnd(end Vec) Rect { return RectFrom(Corners{r.Position, end}) }

// Translated returns r shifted by d.
func (r Rect) Translated(d Vec) Rect { return Rect{Position: r.Position.Plus(d), Size: r.Size} }

// ScaledBy scales position and size about the origin.
func (r Rect) ScaledBy(n float64) Rect {
	return RectFrom(PositionSize{r.Position.Times(n), r.Size.Times(n)})
}

// WithMinimumSize grows each axis of the size to at least min, independently.
func (r Rect) WithMinimumSize(min Vec) Rect {
	return Rect{Position: r.Position, Size: r.Size.Max(min)}
}

// Union returns the smallest rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	return RectFrom(Corners{r.TopLeft().Min(o.TopLeft()), r.BottomRight().Max(o.BottomRight())})
}

// Equal reports structural equality.
func (r Rect) Equal(o Rect) bool { return r.Position.Equal(o.Position) && r.Size.Equal(o.Size) }

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Position.X, r.Position.Y, r.Size.X, r.Size.Y)
}
