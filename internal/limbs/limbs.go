// Package limbs provides a fixed-width bit-vector with two's-complement
// semantics, the storage layer underneath target integers and floats.
//
// A Limbs value has an explicit width in bits and holds an unsigned bit
// pattern in [0, 2^width). Values are immutable: every operation returns a
// new Limbs and never modifies its receiver or arguments.
//
// Arithmetic wraps modulo 2^width. Whether a pattern is read as signed or
// unsigned is decided by the caller (Signed vs Unsigned).
package limbs

import (
	"fmt"
	"math/big"
)

// Limbs is an immutable bit-vector of a fixed width.
//
// The zero value is the empty vector of width 0.
type Limbs struct {
	width uint
	v     *big.Int // 0 <= v < 2^width, never mutated after construction
}

// New returns the all-zero vector of the given width.
func New(width uint) Limbs {
	return Limbs{width: width, v: new(big.Int)}
}

// FromUint64 returns x truncated to width bits.
func FromUint64(width uint, x uint64) Limbs {
	return FromBig(width, new(big.Int).SetUint64(x))
}

// FromInt64 returns the two's-complement pattern of x truncated to width
// bits.
func FromInt64(width uint, x int64) Limbs {
	return FromBig(width, big.NewInt(x))
}

// FromBig returns the two's-complement pattern of x truncated to width bits.
// x is not retained.
func FromBig(width uint, x *big.Int) Limbs {
	return Limbs{width: width, v: wrap(x, width)}
}

// Parse reads an unsigned digit string in the given base (2 to 36). The
// result is exactly as wide as the value needs, at least one bit. Signs,
// prefixes and separators are rejected.
func Parse(s string, base int) (Limbs, error) {
	if base < 2 || base > 36 {
		return Limbs{}, fmt.Errorf("limbs: invalid base %d", base)
	}
	if s == "" {
		return Limbs{}, fmt.Errorf("limbs: empty digit string")
	}
	for i := 0; i < len(s); i++ {
		if digitValue(s[i]) >= base {
			return Limbs{}, fmt.Errorf("limbs: invalid digit %q in base %d", s[i], base)
		}
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Limbs{}, fmt.Errorf("limbs: cannot parse %q in base %d", s, base)
	}
	width := uint(v.BitLen())
	if width == 0 {
		width = 1
	}
	return Limbs{width: width, v: v}, nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// mask returns 2^n - 1.
func mask(n uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), n)
	return m.Sub(m, big.NewInt(1))
}

// wrap reduces x modulo 2^width into a fresh big.Int. big.Int.And treats
// negative operands as infinite two's complement, which is what we want.
func wrap(x *big.Int, width uint) *big.Int {
	return new(big.Int).And(x, mask(width))
}

func (l Limbs) val() *big.Int {
	if l.v == nil {
		return new(big.Int)
	}
	return l.v
}

// Width returns the width in bits.
func (l Limbs) Width() uint { return l.width }

// Resize truncates or zero-extends to width bits.
func (l Limbs) Resize(width uint) Limbs {
	return FromBig(width, l.val())
}

// SignExtend extends to width bits replicating the current top bit. A
// narrower width truncates like Resize.
func (l Limbs) SignExtend(width uint) Limbs {
	if width <= l.width || l.width == 0 || !l.Bit(l.width-1) {
		return l.Resize(width)
	}
	return l.Resize(width).SetBitsAtAndAbove(l.width, true)
}

// Bit reports whether bit i is set. Bits at or above the width read as
// clear.
func (l Limbs) Bit(i uint) bool {
	if i >= l.width {
		return false
	}
	return l.val().Bit(int(i)) == 1
}

// SetBit returns a copy with bit i set to b. It panics if i is out of range.
func (l Limbs) SetBit(i uint, b bool) Limbs {
	if i >= l.width {
		panic(fmt.Sprintf("limbs: bit %d out of range for width %d", i, l.width))
	}
	var bit uint
	if b {
		bit = 1
	}
	return Limbs{width: l.width, v: new(big.Int).SetBit(l.val(), int(i), bit)}
}

// SetBitsAtAndAbove returns a copy with every bit at position pos and above
// set to b.
func (l Limbs) SetBitsAtAndAbove(pos uint, b bool) Limbs {
	if pos >= l.width {
		return l
	}
	high := new(big.Int).AndNot(mask(l.width), mask(pos))
	v := new(big.Int)
	if b {
		v.Or(l.val(), high)
	} else {
		v.AndNot(l.val(), high)
	}
	return Limbs{width: l.width, v: v}
}

// IsZero reports whether no bit is set.
func (l Limbs) IsZero() bool { return l.val().Sign() == 0 }

// Fls returns the 1-based position of the most significant set bit, or 0
// if no bit is set.
func (l Limbs) Fls() uint { return uint(l.val().BitLen()) }

// Ffs returns the 1-based position of the least significant set bit, or 0
// if no bit is set.
func (l Limbs) Ffs() uint {
	if l.IsZero() {
		return 0
	}
	return l.val().TrailingZeroBits() + 1
}

// Clrsb returns the number of bits below the top bit that are equal to it.
func (l Limbs) Clrsb() uint {
	if l.width == 0 {
		return 0
	}
	v := l.val()
	if l.Bit(l.width - 1) {
		v = new(big.Int).Xor(v, mask(l.width))
	}
	return l.width - 1 - uint(v.BitLen())
}

// IsAnySetBelow reports whether any bit below position i is set.
func (l Limbs) IsAnySetBelow(i uint) bool {
	return new(big.Int).And(l.val(), mask(min(i, l.width))).Sign() != 0
}

// IsAnySetAtOrAbove reports whether any bit at position i or above is set.
func (l Limbs) IsAnySetAtOrAbove(i uint) bool {
	return uint(l.val().BitLen()) > i
}

// AreAllSetBelow reports whether every bit below position i is set.
func (l Limbs) AreAllSetBelow(i uint) bool {
	if i > l.width {
		return false
	}
	m := mask(i)
	return new(big.Int).And(l.val(), m).Cmp(m) == 0
}

// Add returns l + o modulo 2^w, w the larger of the two widths.
func (l Limbs) Add(o Limbs) Limbs {
	w := max(l.width, o.width)
	return FromBig(w, new(big.Int).Add(l.val(), o.val()))
}

// Sub returns l - o modulo 2^w, w the larger of the two widths.
func (l Limbs) Sub(o Limbs) Limbs {
	w := max(l.width, o.width)
	return FromBig(w, new(big.Int).Sub(l.val(), o.val()))
}

// Mul returns the full unsigned product, l.Width()+o.Width() bits wide.
func (l Limbs) Mul(o Limbs) Limbs {
	return Limbs{width: l.width + o.width, v: new(big.Int).Mul(l.val(), o.val())}
}

// QuoRem returns the unsigned quotient and remainder of l / o, both of l's
// width. It panics if o is zero.
func (l Limbs) QuoRem(o Limbs) (Limbs, Limbs) {
	if o.IsZero() {
		panic("limbs: division by zero")
	}
	q, r := new(big.Int).QuoRem(l.val(), o.val(), new(big.Int))
	return Limbs{width: l.width, v: q}, Limbs{width: l.width, v: r}
}

// Neg returns the two's-complement negation.
func (l Limbs) Neg() Limbs {
	return FromBig(l.width, new(big.Int).Neg(l.val()))
}

// Not returns the bitwise complement within the width.
func (l Limbs) Not() Limbs {
	return Limbs{width: l.width, v: new(big.Int).Xor(l.val(), mask(l.width))}
}

// And returns the bitwise and, as wide as the wider operand.
func (l Limbs) And(o Limbs) Limbs {
	return Limbs{width: max(l.width, o.width), v: new(big.Int).And(l.val(), o.val())}
}

// Or returns the bitwise or, as wide as the wider operand.
func (l Limbs) Or(o Limbs) Limbs {
	return Limbs{width: max(l.width, o.width), v: new(big.Int).Or(l.val(), o.val())}
}

// Xor returns the bitwise exclusive or, as wide as the wider operand.
func (l Limbs) Xor(o Limbs) Limbs {
	return Limbs{width: max(l.width, o.width), v: new(big.Int).Xor(l.val(), o.val())}
}

// Lsh shifts left by d bits, discarding bits shifted past the width.
func (l Limbs) Lsh(d uint) Limbs {
	if d >= l.width {
		return New(l.width)
	}
	return FromBig(l.width, new(big.Int).Lsh(l.val(), d))
}

// Rsh shifts right by d bits. Vacated high bits are set to fill.
func (l Limbs) Rsh(d uint, fill bool) Limbs {
	var r Limbs
	if d >= l.width {
		r = New(l.width)
		d = l.width
	} else {
		r = Limbs{width: l.width, v: new(big.Int).Rsh(l.val(), d)}
	}
	if fill {
		r = r.SetBitsAtAndAbove(l.width-d, true)
	}
	return r
}

// Cmp compares the unsigned values of l and o.
func (l Limbs) Cmp(o Limbs) int { return l.val().Cmp(o.val()) }

// Equal reports whether l and o have the same width and bits.
func (l Limbs) Equal(o Limbs) bool {
	return l.width == o.width && l.Cmp(o) == 0
}

// Uint64 returns the unsigned value and whether it fits in a uint64.
func (l Limbs) Uint64() (uint64, bool) {
	v := l.val()
	if !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// Unsigned returns the pattern read as an unsigned integer.
func (l Limbs) Unsigned() *big.Int {
	return new(big.Int).Set(l.val())
}

// Signed returns the pattern read as a two's-complement integer.
func (l Limbs) Signed() *big.Int {
	v := l.Unsigned()
	if l.width > 0 && l.Bit(l.width-1) {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), l.width))
	}
	return v
}

// Text returns the unsigned value in the given base.
func (l Limbs) Text(base int) string { return l.val().Text(base) }

// String formats the vector as width'hHEX.
func (l Limbs) String() string {
	return fmt.Sprintf("%d'h%s", l.width, l.Text(16))
}
