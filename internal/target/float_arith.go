package target

import (
	"math/big"

	"github.com/roach88/ccfold/internal/limbs"
)

// Add returns x + o.
func (x Float) Add(o Float) Float {
	x.mustMatch("add", o)
	return x.add(o, o.neg)
}

// Sub returns x - o.
func (x Float) Sub(o Float) Float {
	x.mustMatch("sub", o)
	return x.add(o, !o.neg)
}

// add computes x + (-1)^oneg * |o|.
func (x Float) add(o Float, oneg bool) Float {
	fw, ew := x.fWidth, x.eWidth
	if x.IsNaN() || o.IsNaN() {
		return NaN(fw, ew)
	}
	if x.IsInf() || o.IsInf() {
		switch {
		case x.IsInf() && o.IsInf():
			if x.neg != oneg {
				return NaN(fw, ew)
			}
			return newInf(fw, ew, x.neg)
		case x.IsInf():
			return newInf(fw, ew, x.neg)
		default:
			return newInf(fw, ew, oneg)
		}
	}

	// u has the larger exponent.
	u, uneg := x, x.neg
	v, vneg := o, oneg
	if u.e.Cmp(v.e) < 0 {
		u, uneg, v, vneg = v, vneg, u, uneg
	}

	diff := u.e.Unsigned()
	diff.Sub(diff, v.e.Unsigned())
	if diff.Cmp(new(big.Int).SetUint64(uint64(fw+2))) > 0 {
		// v is below a quarter ulp of u and cannot change the rounded sum.
		u.neg = uneg
		return u
	}

	d := uint(diff.Uint64())
	w := fw + d + 1
	a := u.f.Resize(w).Lsh(d)
	b := v.f.Resize(w)

	var sum limbs.Limbs
	neg := uneg
	switch {
	case uneg == vneg:
		sum = a.Add(b)
	case a.Cmp(b) >= 0:
		sum = a.Sub(b)
	default:
		sum, neg = b.Sub(a), vneg
	}
	if sum.IsZero() {
		return newZero(fw, ew, uneg && vneg)
	}
	return normalize(fw, ew, neg, sum, v.e.Unsigned(), false)
}

// Mul returns x * o.
func (x Float) Mul(o Float) Float {
	x.mustMatch("mul", o)
	fw, ew := x.fWidth, x.eWidth
	neg := x.neg != o.neg
	if x.IsNaN() || o.IsNaN() {
		return NaN(fw, ew)
	}
	if x.IsInf() || o.IsInf() {
		if x.IsZero() || o.IsZero() {
			return NaN(fw, ew)
		}
		return newInf(fw, ew, neg)
	}

	e := new(big.Int).Add(x.e.Unsigned(), o.e.Unsigned())
	e.Sub(e, finiteBias(fw, ew))
	return normalize(fw, ew, neg, x.f.Mul(o.f), e, false)
}

// Div returns x / o.
func (x Float) Div(o Float) Float {
	x.mustMatch("div", o)
	fw, ew := x.fWidth, x.eWidth
	neg := x.neg != o.neg
	switch {
	case x.IsNaN() || o.IsNaN():
		return NaN(fw, ew)
	case x.IsInf():
		if o.IsInf() {
			return NaN(fw, ew)
		}
		return newInf(fw, ew, neg)
	case o.IsInf():
		return newZero(fw, ew, neg)
	case x.IsZero():
		if o.IsZero() {
			return NaN(fw, ew)
		}
		return newZero(fw, ew, neg)
	case o.IsZero():
		return newInf(fw, ew, neg)
	}

	q, r, s := shiftQuoRem(x.f, o.f, fw)
	e := new(big.Int).Sub(x.e.Unsigned(), o.e.Unsigned())
	e.Add(e, finiteBias(fw, ew))
	e.Sub(e, new(big.Int).SetUint64(uint64(s)))
	return normalize(fw, ew, neg, q, e, !r.IsZero())
}

// shiftQuoRem divides n << s by d, choosing s so the quotient has at least
// fWidth+2 bits.
func shiftQuoRem(n, d limbs.Limbs, fWidth uint) (q, r limbs.Limbs, s uint) {
	if need := fWidth + 2 + d.Fls(); need > n.Fls() {
		s = need - n.Fls()
	}
	q, r = n.Resize(n.Fls() + s).Lsh(s).QuoRem(d)
	return q, r, s
}

// FromBase10Exp returns the value m * 10^e10 correctly rounded to the
// format. A negative m yields a negative result.
//
// The power of ten is built by repeated squaring and abandoned as soon as
// the result is certain to be Inf (e10 > 0) or zero (e10 < 0), so huge
// exponents stay cheap.
func FromBase10Exp(fWidth, eWidth uint, m, e10 *big.Int) Float {
	checkFormat(fWidth, eWidth)
	neg := m.Sign() < 0
	mag := new(big.Int).Abs(m)
	if mag.Sign() == 0 {
		return newZero(fWidth, eWidth, neg)
	}

	b := bias(eWidth)
	if e10.Sign() >= 0 {
		// m * 10^e10 >= 10^e10 >= 2^(bias+1) is above every finite value.
		limit := new(big.Int).Add(b, bigOne)
		p, ok := pow10(e10, limit)
		if !ok {
			return newInf(fWidth, eWidth, neg)
		}
		return normalize(fWidth, eWidth, neg, absLimbs(mag).Mul(absLimbs(p)), finiteBias(fWidth, eWidth), false)
	}

	// m / 10^k < 2^-(bias+fWidth) is below half the smallest subnormal.
	k := new(big.Int).Neg(e10)
	limit := new(big.Int).Add(b, big.NewInt(int64(mag.BitLen())+int64(fWidth)))
	p, ok := pow10(k, limit)
	if !ok {
		return newZero(fWidth, eWidth, neg)
	}

	q, r, s := shiftQuoRem(absLimbs(mag), absLimbs(p), fWidth)
	e := finiteBias(fWidth, eWidth)
	e.Sub(e, new(big.Int).SetUint64(uint64(s)))
	return normalize(fWidth, eWidth, neg, q, e, !r.IsZero())
}

// pow10 returns 10^k for k >= 0, or false once the power reaches 2^limit.
func pow10(k, limit *big.Int) (*big.Int, bool) {
	exceeds := func(v *big.Int) bool {
		return big.NewInt(int64(v.BitLen())).Cmp(limit) > 0
	}
	if k.Sign() == 0 {
		return big.NewInt(1), !exceeds(bigOne)
	}
	ten := big.NewInt(10)
	v := big.NewInt(10)
	if exceeds(v) {
		return nil, false
	}
	for i := k.BitLen() - 2; i >= 0; i-- {
		v.Mul(v, v)
		if k.Bit(i) == 1 {
			v.Mul(v, ten)
		}
		if exceeds(v) {
			return nil, false
		}
	}
	return v, true
}
