package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecArithmeticLaws(t *testing.T) {
	vecs := []Vec{Zero, One, V(3, -4), V(-0.5, 12.25), V(1e6, -1e-3)}

	for _, a := range vecs {
		for _, b := range vecs {
			assert.True(t, a.Plus(b).Minus(b).ApproxEqual(a, 1e-9), "a+b-b for a=%v b=%v", a, b)
		}
		assert.Equal(t, a, a.Times(2).DividedBy(2))
		assert.Equal(t, a, Zero.Plus(a))
	}
}

func TestVecScalarOps(t *testing.T) {
	assert := assert.New(t)
	v := V(2, 5)

	assert.Equal(V(3, 6), v.PlusScalar(1))
	assert.Equal(V(1, 4), v.MinusScalar(1))
	assert.Equal(V(6, 15), v.Times(3))
	assert.Equal(V(1, 2.5), v.DividedBy(2))
	assert.Equal(V(4, 15), v.TimesVec(V(2, 3)))
	assert.Equal(V(1, 5), v.DividedByVec(V(2, 1)))
}

func TestVecDivideByZeroPropagates(t *testing.T) {
	v := V(1, 0).DividedBy(0)
	assert.True(t, math.IsInf(v.X, 1))
	assert.True(t, math.IsNaN(v.Y))
	assert.False(t, v.IsFinite())
}

func TestVecLengthAndDistance(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(5.0, V(3, 4).Length())
	assert.Equal(5.0, V(1, 1).DistanceTo(V(4, 5)))
	assert.Equal(7.0, V(1, 1).ManhattanDistanceTo(V(4, 5)))
	assert.InDelta(1.0, V(3, 4).Normalized().Length(), 1e-12)
}

func TestVecNormalizedZeroIsNaN(t *testing.T) {
	n := Zero.Normalized()
	assert.True(t, math.IsNaN(n.X))
	assert.True(t, math.IsNaN(n.Y))
}

func TestVecRounding(t *testing.T) {
	tests := []struct {
		name string
		got  Vec
		want Vec
	}{
		{"Rounded", V(1.5, -1.5).Rounded(), V(2, -2)},
		{"Floor", V(1.7, -1.2).Floor(), V(1, -2)},
		{"Ceiling", V(1.2, -1.7).Ceiling(), V(2, -1)},
		{"RoundedTo", V(14, 26).RoundedTo(10), V(10, 30)},
		{"FlooredTo", V(19, -1).FlooredTo(10), V(10, -10)},
		{"CeiledTo", V(11, -19).CeiledTo(10), V(20, -10)},
		{"Abs", V(-3, 4).Abs(), V(3, 4)},
		{"Map", V(2, 3).Map(func(n float64) float64 { return n * n }), V(4, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestVecMinMaxClamp(t *testing.T) {
	assert := assert.New(t)
	a, b := V(1, 8), V(4, 2)

	assert.Equal(V(1, 2), a.Min(b))
	assert.Equal(V(4, 8), a.Max(b))
	assert.Equal(V(0, 10), V(-5, 50).Clamp(Zero, V(10, 10)))
}

type pointerPos struct{ cx, cy float64 }

func (p pointerPos) XY() (float64, float64) { return p.cx, p.cy }

func TestOfPointlike(t *testing.T) {
	assert.Equal(t, V(7, 9), Of(pointerPos{7, 9}))
	assert.Equal(t, V(7, 9), Of(V(7, 9)))
	assert.Equal(t, V(2, 2), Both(2))
}
