package target

import (
	"math/big"
	"strconv"
	"strings"
)

// ToDecimal formats x with exactly n significant digits, correctly rounded
// (ties to even), as d.ddd...e+XX. Zeros format as "0.0" or "-0.0";
// infinities as "+Inf" or "-Inf"; NaN as "+SNaN" or "-SNaN".
func (x Float) ToDecimal(n uint) string {
	sign := "+"
	if x.neg {
		sign = "-"
	}
	switch {
	case x.IsNaN():
		return sign + "SNaN"
	case x.IsInf():
		return sign + "Inf"
	case x.IsZero():
		if x.neg {
			return "-0.0"
		}
		return "0.0"
	}

	neg, digits, exp := x.DecimalParts(n)
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte(digits[0])
	if len(digits) > 1 {
		sb.WriteByte('.')
		sb.WriteString(digits[1:])
	}
	sb.WriteByte('e')
	if exp < 0 {
		sb.WriteByte('-')
		exp = -exp
	} else {
		sb.WriteByte('+')
	}
	if exp < 10 {
		sb.WriteByte('0')
	}
	sb.WriteString(strconv.FormatInt(exp, 10))
	return sb.String()
}

// DecimalParts returns the sign, the n significant digits and the decimal
// exponent of a finite non-zero x: |x| rounds to d[0].d[1]d[2]... * 10^exp.
// It panics for zero, Inf, NaN and n == 0.
func (x Float) DecimalParts(n uint) (neg bool, digits string, exp int64) {
	if n == 0 {
		panic("target: DecimalParts needs at least one digit")
	}
	if !x.IsFinite() || x.IsZero() {
		panic("target: DecimalParts of a non-finite or zero value")
	}

	// |x| = r / s exactly, r odd.
	tz := x.f.Ffs() - 1
	r := x.f.Rsh(tz, false).Unsigned()
	s := big.NewInt(1)
	k := x.e.Unsigned()
	k.Sub(k, finiteBias(x.fWidth, x.eWidth))
	k.Add(k, new(big.Int).SetUint64(uint64(tz)))
	if k.Sign() >= 0 {
		r.Lsh(r, uint(k.Uint64()))
	} else {
		s.Lsh(s, uint(new(big.Int).Neg(k).Uint64()))
	}

	// r/s lies in (2^(d-1), 2^(d+1)) with d = bitlen(r) - bitlen(s); start
	// from a lower estimate of log10 and correct upward.
	d := int64(r.BitLen()) - int64(s.BitLen()) - 1
	exp = floorDiv(d*30103, 100000)
	scaleExp(r, s, exp)

	ten := big.NewInt(10)
	for r.Cmp(s) < 0 {
		r.Mul(r, ten)
		exp--
	}
	for {
		t := new(big.Int).Mul(s, ten)
		if r.Cmp(t) < 0 {
			break
		}
		s = t
		exp++
	}

	// 1 <= r/s < 10: peel off digits.
	buf := make([]byte, 0, n)
	q := new(big.Int)
	for i := uint(0); i < n; i++ {
		if i > 0 {
			r.Mul(r, ten)
		}
		q.QuoRem(r, s, r)
		buf = append(buf, byte('0'+q.Int64()))
	}

	// Round the last digit on the remainder against half the divisor.
	c := new(big.Int).Lsh(r, 1).Cmp(s)
	if c > 0 || (c == 0 && (buf[n-1]-'0')%2 == 1) {
		i := int(n) - 1
		for ; i >= 0 && buf[i] == '9'; i-- {
			buf[i] = '0'
		}
		if i < 0 {
			buf[0] = '1'
			exp++
		} else {
			buf[i]++
		}
	}
	return x.neg, string(buf), exp
}

// scaleExp divides r/s by 10^e in place.
func scaleExp(r, s *big.Int, e int64) {
	switch {
	case e > 0:
		s.Mul(s, new(big.Int).Exp(big.NewInt(10), big.NewInt(e), nil))
	case e < 0:
		r.Mul(r, new(big.Int).Exp(big.NewInt(10), big.NewInt(-e), nil))
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
