package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_Arithmetic(t *testing.T) {
	a := NewVector(3, 4)
	b := NewVector(1, -2)

	assert.Equal(t, NewVector(4, 2), a.Add(b))
	assert.Equal(t, NewVector(2, 6), a.Subtract(b))
	assert.Equal(t, NewVector(6, 8), a.MultiplyByScalar(2))
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, 25.0, a.NormSq())
	assert.Equal(t, 5.0, a.Norm())
	assert.InDelta(t, math.Sqrt(40), a.Distance(b), 1e-12)
}

func TestVector_Normalize(t *testing.T) {
	n := NewVector(0, -7).Normalize()
	assert.Equal(t, NewVector(0, -1), n)

	t.Run("ZeroVector", func(t *testing.T) {
		assert.True(t, Vector{}.Normalize().IsZero())
	})
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi / 2)
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 1, v.Y, 1e-12)
}

func TestRect_Geometry(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	assert.Equal(t, 10.0, r.Left())
	assert.Equal(t, 40.0, r.Right())
	assert.Equal(t, 20.0, r.Top())
	assert.Equal(t, 60.0, r.Bottom())
	assert.Equal(t, NewVector(25, 40), r.Center())
	assert.Equal(t, [4]Vector{{10, 20}, {40, 20}, {40, 60}, {10, 60}}, r.Corners())
	assert.True(t, r.Contains(NewVector(10, 60)))
	assert.False(t, r.Contains(NewVector(9.9, 30)))
	assert.Equal(t, NewRect(11, 18, 30, 40), r.Translate(NewVector(1, -2)))
	assert.Equal(t, NewRect(0, 0, 30, 40), r.MoveTo(Vector{}))
}

func TestRect_IsEmpty(t *testing.T) {
	assert.False(t, NewRect(0, 0, 1, 1).IsEmpty())
	assert.True(t, NewRect(0, 0, 0, 1).IsEmpty())
	assert.True(t, NewRect(0, 0, 1, -1).IsEmpty())
	assert.True(t, NewRect(0, 0, math.NaN(), 1).IsEmpty())
}
