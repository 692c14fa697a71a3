package geom

import (
	"fmt"
	"math"
)

// Vec is an immutable 2D point or displacement.
type Vec struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

var (
	// Zero is the zero vector.
	Zero = Vec{}

	// One is the vector with both components set to 1.
	One = Vec{X: 1, Y: 1}
)

// Pointlike is anything shaped like an {x, y} pair. Input events and
// third-party point types satisfy it so they can be lifted into a Vec with Of.
type Pointlike interface {
	XY() (x, y float64)
}

// V returns the vector (x, y).
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Both returns a vector with both components set to n.
func Both(n float64) Vec { return Vec{X: n, Y: n} }

// Of converts any Pointlike value into a Vec.
func Of(p Pointlike) Vec {
	x, y := p.XY()
	return Vec{X: x, Y: y}
}

// XY returns the components. It makes Vec itself Pointlike.
func (v Vec) XY() (x, y float64) { return v.X, v.Y }

// Plus returns v + o.
func (v Vec) Plus(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Minus returns v - o.
func (v Vec) Minus(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// PlusScalar adds n to both components.
func (v Vec) PlusScalar(n float64) Vec { return Vec{v.X + n, v.Y + n} }

// MinusScalar subtracts n from both components.
func (v Vec) MinusScalar(n float64) Vec { return Vec{v.X - n, v.Y - n} }

// Times scales v uniformly by n.
func (v Vec) Times(n float64) Vec { return Vec{v.X * n, v.Y * n} }

// TimesVec multiplies component-wise.
func (v Vec) TimesVec(o Vec) Vec { return Vec{v.X * o.X, v.Y * o.Y} }

// DividedBy scales v by 1/n. A zero n yields ±Inf or NaN components.
func (v Vec) DividedBy(n float64) Vec { return Vec{v.X / n, v.Y / n} }

// DividedByVec divides component-wise.
func (v Vec) DividedByVec(o Vec) Vec { return Vec{v.X / o.X, v.Y / o.Y} }

// Length returns the Euclidean length of v.
func (v Vec) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalized returns v / v.Length(). The zero vector yields NaN components.
func (v Vec) Normalized() Vec { return v.DividedBy(v.Length()) }

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec) DistanceTo(o Vec) float64 { return o.Minus(v).Length() }

// ManhattanDistanceTo returns |dx| + |dy|.
func (v Vec) ManhattanDistanceTo(o Vec) float64 {
	return math.Abs(o.X-v.X) + math.Abs(o.Y-v.Y)
}

// Map applies fn to both components.
func (v Vec) Map(fn func(float64) float64) Vec { return Vec{fn(v.X), fn(v.Y)} }

// Rounded rounds both components half away from zero.
func (v Vec) Rounded() Vec { return v.Map(math.Round) }

// Floor floors both components.
func (v Vec) Floor() Vec { return v.Map(math.Floor) }

// Ceiling ceils both components.
func (v Vec) Ceiling() Vec { return v.Map(math.Ceil) }

// Abs returns the component-wise absolute value.
func (v Vec) Abs() Vec { return v.Map(math.Abs) }

// RoundedTo rounds both components to the nearest multiple of m.
func (v Vec) RoundedTo(m float64) Vec {
	return v.Map(func(n float64) float64 { return math.Round(n/m) * m })
}

// FlooredTo floors both components to a multiple of m.
func (v Vec) FlooredTo(m float64) Vec {
	return v.Map(func(n float64) float64 { return math.Floor(n/m) * m })
}

// CeiledTo ceils both components to a multiple of m.
func (v Vec) CeiledTo(m float64) Vec {
	return v.Map(func(n float64) float64 { return math.Ceil(n/m) * m })
}

// Min returns the component-wise minimum of v and o.
func (v Vec) Min(o Vec) Vec { return Vec{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }

// Max returns the component-wise maximum of v and o.
func (v Vec) Max(o Vec) Vec { return Vec{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }

// Clamp limits each component of v to the matching [lo, hi] range.
func (v Vec) Clamp(lo, hi Vec) Vec { return v.Max(lo).Min(hi) }

// Equal reports component-wise equality.
func (v Vec) Equal(o Vec) bool { return v.X == o.X && v.Y == o.Y }

// ApproxEqual reports whether both components differ by at most eps.
func (v Vec) ApproxEqual(o Vec, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// IsFinite reports whether neither component is NaN or ±Inf.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }
