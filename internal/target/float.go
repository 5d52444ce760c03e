package target

import (
	"fmt"
	"math/big"

	"github.com/roach88/ccfold/internal/limbs"
)

// Float is a binary floating-point value in a target format described by
// the significand width fWidth (including the explicit leading bit) and the
// exponent width eWidth.
//
// A finite value is f * 2^(E - bias - (fWidth-1)) with bias =
// 2^(eWidth-1) - 1. E == 1 encodes zero (f == 0) and subnormals (top
// significand bit clear); E == 2^eWidth - 1 encodes Inf (f == 0) and NaN.
//
// The zero value is not a valid Float.
type Float struct {
	fWidth uint
	eWidth uint
	neg    bool
	f      limbs.Limbs
	e      limbs.Limbs
}

var bigOne = big.NewInt(1)

func checkFormat(fWidth, eWidth uint) {
	if fWidth < 2 || eWidth < 2 {
		panic(fmt.Sprintf("target: invalid float format (%d, %d)", fWidth, eWidth))
	}
}

func pow2(n uint) *big.Int { return new(big.Int).Lsh(bigOne, n) }

// bias returns 2^(eWidth-1) - 1.
func bias(eWidth uint) *big.Int {
	b := pow2(eWidth - 1)
	return b.Sub(b, bigOne)
}

// maxE returns the all-ones exponent used by Inf and NaN.
func maxE(eWidth uint) *big.Int {
	m := pow2(eWidth)
	return m.Sub(m, bigOne)
}

// finiteBias returns bias + fWidth - 1: the biased exponent at which the
// significand is read as an integer.
func finiteBias(fWidth, eWidth uint) *big.Int {
	b := bias(eWidth)
	return b.Add(b, new(big.Int).SetUint64(uint64(fWidth-1)))
}

func newZero(fWidth, eWidth uint, neg bool) Float {
	checkFormat(fWidth, eWidth)
	return Float{
		fWidth: fWidth,
		eWidth: eWidth,
		neg:    neg,
		f:      limbs.New(fWidth),
		e:      limbs.FromUint64(eWidth, 1),
	}
}

func newInf(fWidth, eWidth uint, neg bool) Float {
	checkFormat(fWidth, eWidth)
	return Float{
		fWidth: fWidth,
		eWidth: eWidth,
		neg:    neg,
		f:      limbs.New(fWidth),
		e:      limbs.FromBig(eWidth, maxE(eWidth)),
	}
}

// NaN returns the canonical quiet NaN: exponent all ones, significand 1.
func NaN(fWidth, eWidth uint) Float {
	x := newInf(fWidth, eWidth, false)
	x.f = limbs.FromUint64(fWidth, 1)
	return x
}

// Inf returns signed infinity.
func Inf(fWidth, eWidth uint, neg bool) Float { return newInf(fWidth, eWidth, neg) }

// FloatZero returns signed zero.
func FloatZero(fWidth, eWidth uint, neg bool) Float { return newZero(fWidth, eWidth, neg) }

// FromBase2Exp returns the value m * 2^e2 rounded to the format. A negative
// m yields a negative result.
func FromBase2Exp(fWidth, eWidth uint, m, e2 *big.Int) Float {
	checkFormat(fWidth, eWidth)
	e := new(big.Int).Add(e2, finiteBias(fWidth, eWidth))
	return normalize(fWidth, eWidth, m.Sign() < 0, absLimbs(m), e, false)
}

// absLimbs returns |m| exactly as wide as it needs, at least one bit.
func absLimbs(m *big.Int) limbs.Limbs {
	return limbs.FromBig(max(uint(m.BitLen()), 1), new(big.Int).Abs(m))
}

// FWidth returns the significand width.
func (x Float) FWidth() uint { return x.fWidth }

// EWidth returns the exponent width.
func (x Float) EWidth() uint { return x.eWidth }

// Significand returns the significand bits.
func (x Float) Significand() limbs.Limbs { return x.f }

// Exponent returns the biased exponent bits.
func (x Float) Exponent() limbs.Limbs { return x.e }

// IsNegative reports the sign flag, including for zeros and NaN.
func (x Float) IsNegative() bool { return x.neg }

func (x Float) isSpecial() bool { return x.e.AreAllSetBelow(x.eWidth) }

// IsNaN reports whether x is NaN.
func (x Float) IsNaN() bool { return x.isSpecial() && !x.f.IsZero() }

// IsInf reports whether x is positive or negative infinity.
func (x Float) IsInf() bool { return x.isSpecial() && x.f.IsZero() }

// IsFinite reports whether x is neither Inf nor NaN.
func (x Float) IsFinite() bool { return !x.isSpecial() }

func (x Float) isMinExp() bool {
	v, ok := x.e.Uint64()
	return ok && v == 1
}

// IsZero reports whether x is +0 or -0.
func (x Float) IsZero() bool { return x.isMinExp() && x.f.IsZero() }

// IsSubnormal reports whether x is a non-zero subnormal.
func (x Float) IsSubnormal() bool {
	return x.isMinExp() && !x.f.IsZero() && !x.f.Bit(x.fWidth-1)
}

// Neg returns x with the sign flipped. NaN keeps its payload.
func (x Float) Neg() Float {
	x.neg = !x.neg
	return x
}

func (x Float) mustMatch(op string, o Float) {
	if x.fWidth != o.fWidth || x.eWidth != o.eWidth {
		panic(fmt.Sprintf("target: %s on mismatched float formats (%d,%d) and (%d,%d)",
			op, x.fWidth, x.eWidth, o.fWidth, o.eWidth))
	}
}

// Equal reports x == o. Zeros compare equal regardless of sign and NaN
// equals nothing.
func (x Float) Equal(o Float) bool {
	x.mustMatch("equal", o)
	if x.IsNaN() || o.IsNaN() {
		return false
	}
	if x.IsZero() && o.IsZero() {
		return true
	}
	return x.neg == o.neg && x.e.Equal(o.e) && x.f.Equal(o.f)
}

// Less reports x < o. Any comparison with NaN is false.
func (x Float) Less(o Float) bool {
	x.mustMatch("less", o)
	if x.IsNaN() || o.IsNaN() {
		return false
	}
	if x.IsZero() && o.IsZero() {
		return false
	}
	if x.neg != o.neg {
		return x.neg
	}
	c := x.e.Cmp(o.e)
	if c == 0 {
		c = x.f.Cmp(o.f)
	}
	if x.neg {
		return c > 0
	}
	return c < 0
}

// LessEqual reports x <= o.
func (x Float) LessEqual(o Float) bool { return x.Equal(o) || x.Less(o) }

// String formats x with enough digits to round trip.
func (x Float) String() string { return x.ToDecimal(MaxDigits10(x.fWidth)) }

// MaxDigits10 returns the number of significant decimal digits that
// distinguish every value with an fWidth-bit significand:
// ceil(fWidth * log10(2)) + 1.
func MaxDigits10(fWidth uint) uint {
	return (fWidth*30103+99999)/100000 + 1
}

// normalize rounds the value f * 2^(e - bias - (fWidth-1)) to the format,
// ties to even. A set sticky flag records that the true value is slightly
// larger than f in magnitude. e is not retained.
func normalize(fWidth, eWidth uint, neg bool, f limbs.Limbs, e *big.Int, sticky bool) Float {
	checkFormat(fWidth, eWidth)
	e = new(big.Int).Set(e)

	if sticky {
		// Give the sticky bit a position strictly below the guard bit.
		n := f.Fls()
		var pad uint
		if n < fWidth+2 {
			pad = fWidth + 2 - n
		}
		f = f.Resize(n + pad + 1).Lsh(pad + 1).SetBit(0, true)
		e.Sub(e, new(big.Int).SetUint64(uint64(pad+1)))
	}
	if f.IsZero() {
		return newZero(fWidth, eWidth, neg)
	}

	n := f.Fls()
	shift := big.NewInt(int64(n) - int64(fWidth))
	te := new(big.Int).Add(e, shift)
	if te.Cmp(bigOne) < 0 {
		// Subnormal: the significand sits at the minimum exponent.
		shift.Add(shift, new(big.Int).Sub(bigOne, te))
		te.Set(bigOne)
	}

	switch shift.Sign() {
	case 1:
		if !shift.IsInt64() || shift.Int64() > int64(n) {
			return newZero(fWidth, eWidth, neg)
		}
		f = roundShift(f, uint(shift.Int64()))
		if f.Fls() > fWidth {
			f = f.Rsh(1, false)
			te.Add(te, bigOne)
		}
		if f.IsZero() {
			return newZero(fWidth, eWidth, neg)
		}
	case -1:
		f = f.Resize(fWidth).Lsh(uint(-shift.Int64()))
	}

	if te.Cmp(maxE(eWidth)) >= 0 {
		return newInf(fWidth, eWidth, neg)
	}
	return Float{
		fWidth: fWidth,
		eWidth: eWidth,
		neg:    neg,
		f:      f.Resize(fWidth),
		e:      limbs.FromBig(eWidth, te),
	}
}

// roundShift returns f >> s rounded to nearest, ties to even. s > 0. The
// result is one bit wider than f so a carry out of the top is kept.
func roundShift(f limbs.Limbs, s uint) limbs.Limbs {
	q := f.Rsh(s, false).Resize(f.Width() + 1)
	if !f.Bit(s - 1) {
		return q
	}
	if f.IsAnySetBelow(s-1) || q.Bit(0) {
		q = q.Add(limbs.FromUint64(1, 1))
	}
	return q
}

// Convert rounds x to another format.
func (x Float) Convert(fWidth, eWidth uint) Float {
	checkFormat(fWidth, eWidth)
	switch {
	case x.IsNaN():
		return NaN(fWidth, eWidth)
	case x.IsInf():
		return newInf(fWidth, eWidth, x.neg)
	case x.IsZero():
		return newZero(fWidth, eWidth, x.neg)
	}
	e := x.e.Unsigned()
	e.Sub(e, finiteBias(x.fWidth, x.eWidth))
	e.Add(e, finiteBias(fWidth, eWidth))
	return normalize(fWidth, eWidth, x.neg, x.f, e, false)
}

// ToInt truncates x toward zero into an integer configuration. Signed
// targets fail when the truncated value is out of range; unsigned targets
// wrap modulo 2^prec. NaN and Inf always fail.
func (x Float) ToInt(prec uint, signed bool) (Int, error) {
	checkPrec(prec)
	if x.IsNaN() {
		return Int{}, newFloatToIntOverflow("NaN has no integer value")
	}
	if x.IsInf() {
		return Int{}, newFloatToIntOverflow("infinity has no integer value")
	}

	k := x.e.Unsigned()
	k.Sub(k, finiteBias(x.fWidth, x.eWidth))

	// m is the magnitude truncated toward zero.
	var m limbs.Limbs
	switch {
	case k.Sign() < 0:
		s := new(big.Int).Neg(k)
		if !s.IsUint64() || s.Uint64() >= uint64(x.fWidth) {
			m = limbs.New(1)
		} else {
			m = x.f.Rsh(uint(s.Uint64()), false)
		}
	case !k.IsUint64() || k.Uint64() > uint64(prec):
		// Every significant bit lands at or above bit prec+1.
		if signed {
			return Int{}, newFloatToIntOverflow("value out of range")
		}
		m = limbs.New(1)
	default:
		d := uint(k.Uint64())
		m = x.f.Resize(x.fWidth + d).Lsh(d)
	}

	if !signed {
		bits := m.Resize(prec)
		if x.neg {
			bits = bits.Neg()
		}
		return Int{prec: prec, signed: false, bits: bits}, nil
	}
	// The range is [-2^prec, 2^prec - 1].
	minMag := x.neg && m.Fls() == prec+1 && m.Ffs() == prec+1
	if m.IsAnySetAtOrAbove(prec) && !minMag {
		return Int{}, newFloatToIntOverflow("value out of range")
	}
	bits := m.Resize(prec + 1)
	if x.neg {
		bits = bits.Neg()
	}
	return Int{prec: prec, signed: true, bits: bits}, nil
}
