package target

import (
	"fmt"
	"math/big"

	"github.com/roach88/ccfold/internal/limbs"
)

// Int is a target integer of a fixed precision and signedness.
//
// Precision counts value bits and excludes the sign bit, so a 32 bit C int
// is (31, true) and a 32 bit unsigned int is (32, false). The backing
// bit-vector is precision+1 bits wide for signed values.
//
// The zero value is not a valid Int; use Zero or one of the From* helpers.
type Int struct {
	prec   uint
	signed bool
	bits   limbs.Limbs
}

func width(prec uint, signed bool) uint {
	if signed {
		return prec + 1
	}
	return prec
}

func checkPrec(prec uint) {
	if prec == 0 {
		panic("target: integer precision must be positive")
	}
}

// Zero returns 0 in the given configuration.
func Zero(prec uint, signed bool) Int {
	checkPrec(prec)
	return Int{prec: prec, signed: signed, bits: limbs.New(width(prec, signed))}
}

// One returns 1 in the given configuration.
func One(prec uint, signed bool) Int {
	checkPrec(prec)
	return Int{prec: prec, signed: signed, bits: limbs.FromUint64(width(prec, signed), 1)}
}

// FromLimbs wraps an existing bit pattern. The pattern must be exactly
// precision+signed bits wide, and a signed pattern must have every bit at
// and above the precision equal to the sign bit.
func FromLimbs(prec uint, signed bool, ls limbs.Limbs) (Int, error) {
	checkPrec(prec)
	if ls.Width() != width(prec, signed) {
		return Int{}, fmt.Errorf("target: pattern width %d does not match precision %d (signed=%t)",
			ls.Width(), prec, signed)
	}
	return Int{prec: prec, signed: signed, bits: ls}, nil
}

// FromBig returns x in the given configuration, failing with a signed
// overflow error when x is not representable.
func FromBig(prec uint, signed bool, x *big.Int) (Int, error) {
	checkPrec(prec)
	if !fits(prec, signed, x) {
		return Int{}, newConstructOverflow(x.String(), prec, signed)
	}
	return Int{prec: prec, signed: signed, bits: limbs.FromBig(width(prec, signed), x)}, nil
}

func newConstructOverflow(v string, prec uint, signed bool) error {
	return &ArithError{
		Code:    ErrCodeSignedOverflow,
		Op:      "construct",
		Message: fmt.Sprintf("%s does not fit precision %d (signed=%t)", v, prec, signed),
	}
}

// WrapBig returns x reduced modulo 2^(precision+signed) and reinterpreted in
// the given configuration. It never fails.
func WrapBig(prec uint, signed bool, x *big.Int) Int {
	checkPrec(prec)
	return Int{prec: prec, signed: signed, bits: limbs.FromBig(width(prec, signed), x)}
}

// FromInt64 is FromBig for an int64.
func FromInt64(prec uint, signed bool, x int64) (Int, error) {
	checkPrec(prec)
	if !fits(prec, signed, big.NewInt(x)) {
		return Int{}, newConstructOverflow(fmt.Sprint(x), prec, signed)
	}
	return Int{prec: prec, signed: signed, bits: limbs.FromInt64(width(prec, signed), x)}, nil
}

// FromUint64 is FromBig for a uint64.
func FromUint64(prec uint, signed bool, x uint64) (Int, error) {
	return FromBig(prec, signed, new(big.Int).SetUint64(x))
}

// Parse reads the digits of an integer literal (no sign, prefix or suffix)
// in the given base.
func Parse(digits string, base int, prec uint, signed bool) (Int, error) {
	checkPrec(prec)
	ls, err := limbs.Parse(digits, base)
	if err != nil {
		return Int{}, err
	}
	if ls.Fls() > prec {
		return Int{}, newConstructOverflow(ls.Text(10), prec, signed)
	}
	return Int{prec: prec, signed: signed, bits: ls.Resize(width(prec, signed))}, nil
}

func fits(prec uint, signed bool, x *big.Int) bool {
	if !signed {
		return x.Sign() >= 0 && uint(x.BitLen()) <= prec
	}
	if x.Sign() >= 0 {
		return uint(x.BitLen()) <= prec
	}
	// -2^prec <= x  <=>  bitlen(-x-1) <= prec
	m := new(big.Int).Neg(x)
	m.Sub(m, big.NewInt(1))
	return uint(m.BitLen()) <= prec
}

// Prec returns the precision in value bits.
func (x Int) Prec() uint { return x.prec }

// Signed reports whether x is signed.
func (x Int) Signed() bool { return x.signed }

// Width returns precision + signed.
func (x Int) Width() uint { return width(x.prec, x.signed) }

// Limbs returns the backing bit pattern.
func (x Int) Limbs() limbs.Limbs { return x.bits }

// BigInt returns the mathematical value.
func (x Int) BigInt() *big.Int {
	if x.signed {
		return x.bits.Signed()
	}
	return x.bits.Unsigned()
}

// Int64 returns the value and whether it fits an int64.
func (x Int) Int64() (int64, bool) {
	v := x.BigInt()
	return v.Int64(), v.IsInt64()
}

// Uint64 returns the value and whether it fits a uint64.
func (x Int) Uint64() (uint64, bool) {
	v := x.BigInt()
	return v.Uint64(), v.IsUint64()
}

// String returns the value in decimal.
func (x Int) String() string {
	if x.IsNegative() {
		return "-" + x.magnitude(x.Width()).Text(10)
	}
	return x.bits.Text(10)
}

// IsNegative reports whether x is below zero.
func (x Int) IsNegative() bool {
	return x.signed && x.bits.Bit(x.prec)
}

// IsZero reports whether x is zero.
func (x Int) IsZero() bool { return x.bits.IsZero() }

// Bool is C's truth value of x.
func (x Int) Bool() bool { return !x.IsZero() }

// MinRequiredWidth returns the number of bits a two's-complement
// representation of x needs: bitlen(x) for non-negative values and
// bitlen(-x-1)+1 for negative ones.
func (x Int) MinRequiredWidth() uint {
	if x.IsNegative() {
		return x.Width() - x.bits.Clrsb()
	}
	return x.bits.Fls()
}

func (x Int) mustMatch(op string, o Int) {
	if x.prec != o.prec || x.signed != o.signed {
		panic(fmt.Sprintf("target: %s on mismatched integers (%d,%t) and (%d,%t)",
			op, x.prec, x.signed, o.prec, o.signed))
	}
}

// extend widens x's pattern to w bits, replicating the sign bit of signed
// values.
func (x Int) extend(w uint) limbs.Limbs {
	if x.signed {
		return x.bits.SignExtend(w)
	}
	return x.bits.Resize(w)
}

// magnitude returns |x| as an unsigned pattern w bits wide. w must exceed
// the precision.
func (x Int) magnitude(w uint) limbs.Limbs {
	m := x.extend(w)
	if x.IsNegative() {
		m = m.Neg()
	}
	return m
}

// fitsWidth reports whether the two's-complement pattern r holds a value
// representable in w bits.
func fitsWidth(r limbs.Limbs, w uint) bool {
	return r.Width() <= w || r.Clrsb() >= r.Width()-w
}

// result maps the exact result r, a two's-complement pattern wider than x,
// back into x's configuration: unsigned values wrap, signed values must fit.
func (x Int) result(op string, r limbs.Limbs) (Int, error) {
	w := x.Width()
	if x.signed && !fitsWidth(r, w) {
		return Int{}, newSignedOverflow(op)
	}
	return Int{prec: x.prec, signed: x.signed, bits: r.Resize(w)}, nil
}

// Cmp compares x and o under their common signedness.
func (x Int) Cmp(o Int) int {
	x.mustMatch("cmp", o)
	if xn, on := x.IsNegative(), o.IsNegative(); xn != on {
		if xn {
			return -1
		}
		return 1
	}
	// Patterns of the same sign order like their values.
	return x.bits.Cmp(o.bits)
}

// Equal reports x == o.
func (x Int) Equal(o Int) bool { return x.Cmp(o) == 0 }

// Less reports x < o.
func (x Int) Less(o Int) bool { return x.Cmp(o) < 0 }

// LessEqual reports x <= o.
func (x Int) LessEqual(o Int) bool { return x.Cmp(o) <= 0 }

// Add returns x + o.
func (x Int) Add(o Int) (Int, error) {
	x.mustMatch("add", o)
	w := x.Width() + 1
	return x.result("add", x.extend(w).Add(o.extend(w)))
}

// Sub returns x - o.
func (x Int) Sub(o Int) (Int, error) {
	x.mustMatch("sub", o)
	w := x.Width() + 1
	return x.result("sub", x.extend(w).Sub(o.extend(w)))
}

// Mul returns x * o.
func (x Int) Mul(o Int) (Int, error) {
	x.mustMatch("mul", o)
	// The low 2w bits of the product of the extended patterns are the
	// exact product, which always fits 2w bits.
	w := 2 * x.Width()
	return x.result("mul", x.extend(w).Mul(o.extend(w)).Resize(w))
}

// quoRem divides magnitudes and restores the signs: the quotient is
// negative when the signs differ, the remainder takes the sign of x.
func (x Int) quoRem(op string, o Int) (q, r limbs.Limbs, err error) {
	x.mustMatch(op, o)
	if o.IsZero() {
		return q, r, newDivisionByZero(op)
	}
	w := x.Width() + 1
	q, r = x.magnitude(w).QuoRem(o.magnitude(w))
	if x.IsNegative() != o.IsNegative() {
		q = q.Neg()
	}
	if x.IsNegative() {
		r = r.Neg()
	}
	return q, r, nil
}

// Quo returns x / o truncated toward zero.
func (x Int) Quo(o Int) (Int, error) {
	q, _, err := x.quoRem("div", o)
	if err != nil {
		return Int{}, err
	}
	return x.result("div", q)
}

// Rem returns x % o with the sign of x.
func (x Int) Rem(o Int) (Int, error) {
	_, r, err := x.quoRem("rem", o)
	if err != nil {
		return Int{}, err
	}
	return x.result("rem", r)
}

// And returns x & o.
func (x Int) And(o Int) Int {
	x.mustMatch("and", o)
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.And(o.bits)}
}

// Or returns x | o.
func (x Int) Or(o Int) Int {
	x.mustMatch("or", o)
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.Or(o.bits)}
}

// Xor returns x ^ o.
func (x Int) Xor(o Int) Int {
	x.mustMatch("xor", o)
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.Xor(o.bits)}
}

// Not returns ~x.
func (x Int) Not() Int {
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.Not()}
}

// Neg returns -x. Unsigned negation wraps.
func (x Int) Neg() (Int, error) {
	return x.result("neg", x.extend(x.Width()+1).Neg())
}

func (x Int) shiftDistance(op string, d Int) (uint, error) {
	if d.IsNegative() {
		return 0, newShiftOverflow(op, "negative shift distance")
	}
	n, ok := d.bits.Uint64()
	if !ok || n >= uint64(x.Width()) {
		return 0, newShiftOverflow(op, fmt.Sprintf("shift distance %s >= width %d", d, x.Width()))
	}
	return uint(n), nil
}

// Shl returns x << d. The distance may have any configuration. A signed
// result that is not representable fails with a shift overflow.
func (x Int) Shl(d Int) (Int, error) {
	n, err := x.shiftDistance("shl", d)
	if err != nil {
		return Int{}, err
	}
	// Every bit shifted out, and the new sign bit, must be a copy of the
	// old sign bit.
	if x.signed && x.bits.Clrsb() < n {
		return Int{}, newShiftOverflow("shl", "result not representable")
	}
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.Lsh(n)}, nil
}

// Shr returns x >> d, arithmetic for signed values.
func (x Int) Shr(d Int) (Int, error) {
	n, err := x.shiftDistance("shr", d)
	if err != nil {
		return Int{}, err
	}
	return Int{prec: x.prec, signed: x.signed, bits: x.bits.Rsh(n, x.IsNegative())}, nil
}

// Convert returns x in another configuration. Unsigned targets wrap
// modulo 2^prec; signed targets fail when x is not representable.
func (x Int) Convert(prec uint, signed bool) (Int, error) {
	checkPrec(prec)
	w := width(prec, signed)
	ext := x.extend(max(x.Width(), w) + 1)
	if signed && !fitsWidth(ext, w) {
		return Int{}, newSignedOverflow("convert")
	}
	return Int{prec: prec, signed: signed, bits: ext.Resize(w)}, nil
}

// ToFloat converts x to a float format, rounding to nearest even.
func (x Int) ToFloat(fWidth, eWidth uint) Float {
	return normalize(fWidth, eWidth, x.IsNegative(), x.magnitude(x.Width()+1), finiteBias(fWidth, eWidth), false)
}
