package target

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ccfold/internal/limbs"
)

func mustInt(t *testing.T, prec uint, signed bool, v int64) Int {
	t.Helper()
	x, err := FromInt64(prec, signed, v)
	require.NoError(t, err)
	return x
}

func TestUnsignedWraparound(t *testing.T) {
	ff := mustInt(t, 8, false, 0xff)
	one := One(8, false)
	zero := Zero(8, false)

	sum, err := ff.Add(one)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	diff, err := zero.Sub(one)
	require.NoError(t, err)
	assert.Equal(t, "255", diff.String())

	prod, err := ff.Mul(ff)
	require.NoError(t, err)
	assert.Equal(t, "1", prod.String())

	neg, err := one.Neg()
	require.NoError(t, err)
	assert.Equal(t, "255", neg.String())
}

func TestSignedOverflow(t *testing.T) {
	maxI := mustInt(t, 7, true, 127)
	minI := mustInt(t, 7, true, -128)
	one := One(7, true)
	minusOne := mustInt(t, 7, true, -1)

	tests := []struct {
		name string
		fn   func() (Int, error)
	}{
		{"max + 1", func() (Int, error) { return maxI.Add(one) }},
		{"min - 1", func() (Int, error) { return minI.Sub(one) }},
		{"max * 2", func() (Int, error) { return maxI.Mul(mustInt(t, 7, true, 2)) }},
		{"min / -1", func() (Int, error) { return minI.Quo(minusOne) }},
		{"-min", func() (Int, error) { return minI.Neg() }},
		{"min * -1", func() (Int, error) { return minI.Mul(minusOne) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSignedOverflow)
			assert.True(t, IsOverflow(err))
			assert.False(t, IsDivisionByZero(err))
		})
	}

	// Results at the edges are fine.
	v, err := minI.Add(Zero(7, true))
	require.NoError(t, err)
	assert.Equal(t, "-128", v.String())
	v, err = minI.Rem(minusOne)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestDivisionByZero(t *testing.T) {
	x := mustInt(t, 31, true, 7)
	z := Zero(31, true)

	_, err := x.Quo(z)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.True(t, IsDivisionByZero(err))
	assert.False(t, IsOverflow(err))

	_, err = x.Rem(z)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeDivisionByZero, code)
}

func TestDivisionConsistency(t *testing.T) {
	values := []int64{-100, -7, -3, -1, 1, 3, 7, 100}
	for _, a := range values {
		for _, b := range values {
			x := mustInt(t, 31, true, a)
			y := mustInt(t, 31, true, b)
			q, err := x.Quo(y)
			require.NoError(t, err)
			r, err := x.Rem(y)
			require.NoError(t, err)

			// C truncates toward zero.
			assert.Equal(t, a/b, mustI64(t, q), "%d / %d", a, b)
			assert.Equal(t, a%b, mustI64(t, r), "%d %% %d", a, b)

			back, err := q.Mul(y)
			require.NoError(t, err)
			back, err = back.Add(r)
			require.NoError(t, err)
			assert.True(t, back.Equal(x))
		}
	}
}

func mustI64(t *testing.T, x Int) int64 {
	t.Helper()
	v, ok := x.Int64()
	require.True(t, ok)
	return v
}

func TestAddSubRoundTrip(t *testing.T) {
	for _, a := range []int64{-1000, -1, 0, 5, 99999} {
		for _, b := range []int64{-77, 0, 12345} {
			x := mustInt(t, 31, true, a)
			y := mustInt(t, 31, true, b)
			s, err := x.Add(y)
			require.NoError(t, err)
			d, err := s.Sub(y)
			require.NoError(t, err)
			assert.True(t, d.Equal(x))

			n, err := x.Neg()
			require.NoError(t, err)
			n, err = n.Neg()
			require.NoError(t, err)
			assert.True(t, n.Equal(x))
		}
	}
}

func TestBitwise(t *testing.T) {
	a := mustInt(t, 7, true, -2) // 0xfe
	b := mustInt(t, 7, true, 0x0f)

	assert.Equal(t, "14", a.And(b).String())
	assert.Equal(t, "-1", a.Or(b).String())
	assert.Equal(t, "-15", a.Xor(b).String())
	assert.Equal(t, "1", a.Not().String())
	assert.Equal(t, "240", mustInt(t, 8, false, 0x0f).Not().String())
}

func TestShifts(t *testing.T) {
	one := One(31, true)
	d := func(n int64) Int { return mustInt(t, 63, true, n) }

	t.Run("left", func(t *testing.T) {
		v, err := one.Shl(d(30))
		require.NoError(t, err)
		assert.Equal(t, "1073741824", v.String())

		_, err = one.Shl(d(31))
		assert.ErrorIs(t, err, ErrShiftOverflow)

		v, err = mustInt(t, 31, true, -1).Shl(d(31))
		require.NoError(t, err)
		assert.Equal(t, "-2147483648", v.String())

		v, err = One(32, false).Shl(d(31))
		require.NoError(t, err)
		assert.Equal(t, "2147483648", v.String())

		v, err = mustInt(t, 32, false, 3).Shl(d(31))
		require.NoError(t, err)
		assert.Equal(t, "2147483648", v.String())
	})

	t.Run("distance out of range", func(t *testing.T) {
		for _, n := range []int64{-1, 32, 1000} {
			_, err := one.Shl(d(n))
			assert.ErrorIs(t, err, ErrShiftOverflow, "shl %d", n)
			_, err = one.Shr(d(n))
			assert.ErrorIs(t, err, ErrShiftOverflow, "shr %d", n)
		}
		_, err := One(32, false).Shl(d(32))
		assert.ErrorIs(t, err, ErrShiftOverflow)
	})

	t.Run("right is arithmetic for signed", func(t *testing.T) {
		v, err := mustInt(t, 31, true, -8).Shr(d(1))
		require.NoError(t, err)
		assert.Equal(t, "-4", v.String())

		v, err = mustInt(t, 31, true, -1).Shr(d(31))
		require.NoError(t, err)
		assert.Equal(t, "-1", v.String())

		v, err = mustInt(t, 31, true, -7).Shr(d(1))
		require.NoError(t, err)
		assert.Equal(t, "-4", v.String())

		v, err = mustInt(t, 32, false, 0xfffffff8).Shr(d(1))
		require.NoError(t, err)
		assert.Equal(t, "2147483644", v.String())
	})

	t.Run("distance may be unsigned or narrow", func(t *testing.T) {
		v, err := one.Shl(mustInt(t, 8, false, 4))
		require.NoError(t, err)
		assert.Equal(t, "16", v.String())
	})
}

func TestIntConvert(t *testing.T) {
	t.Run("unsigned target wraps", func(t *testing.T) {
		v, err := mustInt(t, 31, true, -1).Convert(8, false)
		require.NoError(t, err)
		assert.Equal(t, "255", v.String())

		v, err = mustInt(t, 31, true, 0x1234).Convert(8, false)
		require.NoError(t, err)
		assert.Equal(t, "52", v.String())
	})

	t.Run("signed target overflows", func(t *testing.T) {
		_, err := mustInt(t, 8, false, 200).Convert(7, true)
		assert.ErrorIs(t, err, ErrSignedOverflow)

		_, err = mustInt(t, 31, true, -129).Convert(7, true)
		assert.ErrorIs(t, err, ErrSignedOverflow)

		v, err := mustInt(t, 31, true, -128).Convert(7, true)
		require.NoError(t, err)
		assert.Equal(t, "-128", v.String())
	})

	t.Run("widening keeps the value", func(t *testing.T) {
		v, err := mustInt(t, 7, true, -5).Convert(127, true)
		require.NoError(t, err)
		assert.Equal(t, "-5", v.String())
		assert.Equal(t, uint(128), v.Width())
	})

	t.Run("round trips", func(t *testing.T) {
		for _, x := range []Int{mustInt(t, 31, true, -40000), mustInt(t, 32, false, 70000)} {
			once, err := x.Convert(16, false)
			require.NoError(t, err)
			twice, err := once.Convert(16, false)
			require.NoError(t, err)
			assert.True(t, once.Equal(twice))

			wide, err := x.Convert(63, true)
			require.NoError(t, err)
			back, err := wide.Convert(x.Prec(), x.Signed())
			require.NoError(t, err)
			assert.True(t, back.Equal(x))
		}
	})
}

func TestCompareInt(t *testing.T) {
	a := mustInt(t, 31, true, -1)
	b := One(31, true)
	assert.True(t, a.Less(b))
	assert.True(t, a.LessEqual(a))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Cmp(a))

	// Unsigned compares by magnitude.
	ua := mustInt(t, 32, false, 0xffffffff)
	ub := One(32, false)
	assert.True(t, ub.Less(ua))

	assert.Panics(t, func() { a.Cmp(ua) })
	assert.Panics(t, func() { _, _ = a.Add(ua) })
}

func TestPredicates(t *testing.T) {
	assert.True(t, mustInt(t, 31, true, -3).IsNegative())
	assert.False(t, mustInt(t, 31, true, 3).IsNegative())
	assert.False(t, mustInt(t, 32, false, 0xffffffff).IsNegative())
	assert.True(t, Zero(31, true).IsZero())
	assert.False(t, Zero(31, true).Bool())
	assert.True(t, mustInt(t, 31, true, -3).Bool())
}

func TestMinRequiredWidth(t *testing.T) {
	tests := []struct {
		v    int64
		want uint
	}{
		{0, 0},
		{1, 1},
		{127, 7},
		{128, 8},
		{-1, 1},
		{-128, 8},
		{-129, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustInt(t, 63, true, tt.v).MinRequiredWidth(), "value %d", tt.v)
	}
}

func TestWideInt(t *testing.T) {
	maxI, err := Parse("7fffffffffffffffffffffffffffffff", 16, 127, true)
	require.NoError(t, err)
	minI := maxI.Not()
	minusOne := mustInt(t, 127, true, -1)
	d := func(n int64) Int { return mustInt(t, 63, true, n) }

	assert.Equal(t, "170141183460469231731687303715884105727", maxI.String())
	assert.Equal(t, "-170141183460469231731687303715884105728", minI.String())
	assert.Equal(t, uint(127), maxI.MinRequiredWidth())
	assert.Equal(t, uint(128), minI.MinRequiredWidth())
	assert.True(t, minI.Less(maxI))

	t.Run("overflow at the edges", func(t *testing.T) {
		_, err := maxI.Add(One(127, true))
		assert.ErrorIs(t, err, ErrSignedOverflow)
		_, err = minI.Quo(minusOne)
		assert.ErrorIs(t, err, ErrSignedOverflow)
		_, err = maxI.Mul(mustInt(t, 127, true, 2))
		assert.ErrorIs(t, err, ErrSignedOverflow)

		r, err := minI.Rem(minusOne)
		require.NoError(t, err)
		assert.True(t, r.IsZero())

		q, err := minI.Quo(mustInt(t, 127, true, 2))
		require.NoError(t, err)
		assert.Equal(t, "-85070591730234615865843651857942052864", q.String())
		r, err = minI.Rem(mustInt(t, 127, true, 3))
		require.NoError(t, err)
		assert.Equal(t, "-2", r.String())
	})

	t.Run("shifts", func(t *testing.T) {
		v, err := minusOne.Shl(d(127))
		require.NoError(t, err)
		assert.True(t, v.Equal(minI))

		v, err = mustInt(t, 127, true, -2).Shl(d(126))
		require.NoError(t, err)
		assert.True(t, v.Equal(minI))

		_, err = One(127, true).Shl(d(127))
		assert.ErrorIs(t, err, ErrShiftOverflow)
		_, err = maxI.Shl(d(1))
		assert.ErrorIs(t, err, ErrShiftOverflow)

		v, err = minI.Shr(d(126))
		require.NoError(t, err)
		assert.Equal(t, "-2", v.String())
		v, err = minI.Shr(d(127))
		require.NoError(t, err)
		assert.Equal(t, "-1", v.String())
		v, err = maxI.Shr(d(126))
		require.NoError(t, err)
		assert.Equal(t, "1", v.String())
	})

	t.Run("unsigned wraps", func(t *testing.T) {
		umax := WrapBig(128, false, big.NewInt(-1))
		p, err := umax.Mul(umax)
		require.NoError(t, err)
		assert.Equal(t, "1", p.String())
		s, err := umax.Add(umax)
		require.NoError(t, err)
		assert.Equal(t, "340282366920938463463374607431768211454", s.String())
	})

	t.Run("convert extends the sign", func(t *testing.T) {
		v, err := mustInt(t, 7, true, -1).Convert(128, false)
		require.NoError(t, err)
		assert.Equal(t, "ffffffffffffffffffffffffffffffff", v.Limbs().Text(16))

		v, err = minI.Convert(7, false)
		require.NoError(t, err)
		assert.True(t, v.IsZero())

		_, err = minI.Convert(126, true)
		assert.ErrorIs(t, err, ErrSignedOverflow)
		v, err = mustInt(t, 127, true, -5).Convert(7, true)
		require.NoError(t, err)
		assert.Equal(t, "-5", v.String())
	})
}

func TestConstruction(t *testing.T) {
	t.Run("from big range checks", func(t *testing.T) {
		_, err := FromInt64(7, true, 128)
		assert.ErrorIs(t, err, ErrSignedOverflow)
		_, err = FromInt64(8, false, -1)
		assert.ErrorIs(t, err, ErrSignedOverflow)
		_, err = FromUint64(8, false, 256)
		assert.Error(t, err)
		v, err := FromUint64(64, false, ^uint64(0))
		require.NoError(t, err)
		u, ok := v.Uint64()
		assert.True(t, ok)
		assert.Equal(t, ^uint64(0), u)
	})

	t.Run("wrap never fails", func(t *testing.T) {
		assert.Equal(t, "-1", WrapBig(7, true, big.NewInt(255)).String())
		assert.Equal(t, "1", WrapBig(8, false, big.NewInt(257)).String())
	})

	t.Run("parse", func(t *testing.T) {
		v, err := Parse("7fffffff", 16, 31, true)
		require.NoError(t, err)
		assert.Equal(t, "2147483647", v.String())

		_, err = Parse("80000000", 16, 31, true)
		assert.ErrorIs(t, err, ErrSignedOverflow)

		v, err = Parse("18446744073709551615", 10, 64, false)
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551615", v.String())

		_, err = Parse("12a", 10, 31, true)
		assert.Error(t, err)
	})

	t.Run("from limbs", func(t *testing.T) {
		v, err := FromLimbs(7, true, limbs.FromInt64(8, -2))
		require.NoError(t, err)
		assert.Equal(t, "-2", v.String())

		_, err = FromLimbs(7, true, limbs.FromInt64(16, -2))
		assert.Error(t, err)
	})

	t.Run("zero precision panics", func(t *testing.T) {
		assert.Panics(t, func() { Zero(0, true) })
	})
}

func TestErrorMessages(t *testing.T) {
	_, err := One(31, true).Quo(Zero(31, true))
	require.Error(t, err)
	assert.Equal(t, "DIVISION_BY_ZERO: division by zero (op=div)", err.Error())
	assert.Equal(t, "SIGNED_OVERFLOW: integer overflow", ErrSignedOverflow.Error())
}
