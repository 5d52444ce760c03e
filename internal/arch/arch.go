// Package arch describes compilation targets: how wide each C integer type
// is, whether plain char is signed, and which binary format each floating
// type uses.
//
// Descriptions come from the built-in table (Lookup) or from CUE files
// validated against an embedded schema (LoadFile, LoadDir).
package arch

import (
	"fmt"
)

// IntKind is a C integer type.
type IntKind int

const (
	Bool IntKind = iota
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LLong
	ULLong
	Int128
	UInt128
)

var intKindNames = [...]string{
	Bool:    "bool",
	Char:    "char",
	SChar:   "schar",
	UChar:   "uchar",
	Short:   "short",
	UShort:  "ushort",
	Int:     "int",
	UInt:    "uint",
	Long:    "long",
	ULong:   "ulong",
	LLong:   "llong",
	ULLong:  "ullong",
	Int128:  "int128",
	UInt128: "uint128",
}

// IntKinds lists every integer kind in rank order.
var IntKinds = []IntKind{Bool, Char, SChar, UChar, Short, UShort, Int, UInt, Long, ULong, LLong, ULLong, Int128, UInt128}

func (k IntKind) String() string {
	if k < 0 || int(k) >= len(intKindNames) {
		return fmt.Sprintf("IntKind(%d)", int(k))
	}
	return intKindNames[k]
}

// ParseIntKind maps a name such as "ullong" to its kind.
func ParseIntKind(s string) (IntKind, bool) {
	for i, n := range intKindNames {
		if n == s {
			return IntKind(i), true
		}
	}
	return 0, false
}

// Rank is the C integer conversion rank: bool < char < short < int < long <
// long long < __int128. Signed and unsigned variants share a rank.
func (k IntKind) Rank() int {
	switch k {
	case Bool:
		return 0
	case Char, SChar, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt:
		return 3
	case Long, ULong:
		return 4
	case LLong, ULLong:
		return 5
	default:
		return 6
	}
}

// ToUnsigned returns the unsigned type of the same rank. Bool is returned
// unchanged.
func (k IntKind) ToUnsigned() IntKind {
	switch k {
	case Char, SChar:
		return UChar
	case Short:
		return UShort
	case Int:
		return UInt
	case Long:
		return ULong
	case LLong:
		return ULLong
	case Int128:
		return UInt128
	}
	return k
}

// FloatKind is a C real floating type.
type FloatKind int

const (
	Float FloatKind = iota
	Double
	LDouble
)

var floatKindNames = [...]string{Float: "float", Double: "double", LDouble: "ldouble"}

// FloatKinds lists the floating kinds from narrowest to widest.
var FloatKinds = []FloatKind{Float, Double, LDouble}

func (k FloatKind) String() string {
	if k < 0 || int(k) >= len(floatKindNames) {
		return fmt.Sprintf("FloatKind(%d)", int(k))
	}
	return floatKindNames[k]
}

// ParseFloatKind maps "float", "double" or "ldouble" to its kind.
func ParseFloatKind(s string) (FloatKind, bool) {
	for i, n := range floatKindNames {
		if n == s {
			return FloatKind(i), true
		}
	}
	return 0, false
}

// Format is a binary floating-point format: significand width including the
// leading bit, and exponent width.
type Format struct {
	FWidth uint `json:"f_width"`
	EWidth uint `json:"e_width"`
}

func (f Format) String() string { return fmt.Sprintf("{%d,%d}", f.FWidth, f.EWidth) }

// IntWidths holds the storage width in bits of each integer rank.
type IntWidths struct {
	Bool   uint `json:"bool"`
	Char   uint `json:"char"`
	Short  uint `json:"short"`
	Int    uint `json:"int"`
	Long   uint `json:"long"`
	LLong  uint `json:"llong"`
	Int128 uint `json:"int128"`
}

// Floats holds the format of each floating kind.
type Floats struct {
	Float   Format `json:"float"`
	Double  Format `json:"double"`
	LDouble Format `json:"ldouble"`
}

// Target describes one compilation target.
type Target struct {
	Name         string    `json:"name"`
	CharSigned   bool      `json:"char_signed"`
	IntWidths    IntWidths `json:"ints"`
	Floats       Floats    `json:"floats"`
	PointerWidth uint      `json:"pointer"`
}

// IntWidth returns the storage width of k in bits.
func (t *Target) IntWidth(k IntKind) uint {
	switch k.Rank() {
	case 0:
		return t.IntWidths.Bool
	case 1:
		return t.IntWidths.Char
	case 2:
		return t.IntWidths.Short
	case 3:
		return t.IntWidths.Int
	case 4:
		return t.IntWidths.Long
	case 5:
		return t.IntWidths.LLong
	default:
		return t.IntWidths.Int128
	}
}

// IsSigned reports whether k is a signed type on this target.
func (t *Target) IsSigned(k IntKind) bool {
	switch k {
	case Bool, UChar, UShort, UInt, ULong, ULLong, UInt128:
		return false
	case Char:
		return t.CharSigned
	}
	return true
}

// IntPrec returns the value precision (excluding the sign bit) and
// signedness of k. _Bool has precision 1 whatever its storage width.
func (t *Target) IntPrec(k IntKind) (prec uint, signed bool) {
	if k == Bool {
		return 1, false
	}
	signed = t.IsSigned(k)
	prec = t.IntWidth(k)
	if signed {
		prec--
	}
	return prec, signed
}

// FloatFormat returns the format of k.
func (t *Target) FloatFormat(k FloatKind) Format {
	switch k {
	case Float:
		return t.Floats.Float
	case Double:
		return t.Floats.Double
	default:
		return t.Floats.LDouble
	}
}

// IntMode returns GCC's machine mode name for an integer width, or "" when
// there is none.
func IntMode(width uint) string {
	switch width {
	case 8:
		return "QI"
	case 16:
		return "HI"
	case 32:
		return "SI"
	case 64:
		return "DI"
	case 128:
		return "TI"
	}
	return ""
}

// MaxEWidth bounds exponent widths so that exact intermediate values stay
// a manageable size.
const MaxEWidth = 32

// Validate checks that every width is usable and that integer widths do not
// shrink with rank.
func (t *Target) Validate() error {
	if t.Name == "" {
		return &LoadError{Code: ErrCodeInvalidTarget, Message: "target name is required"}
	}
	w := t.IntWidths
	if w.Bool == 0 {
		return t.invalid("ints.bool", "width must be positive")
	}
	if w.Char < 8 {
		return t.invalid("ints.char", fmt.Sprintf("width %d is below 8", w.Char))
	}
	ranks := []struct {
		field string
		width uint
	}{
		{"ints.char", w.Char},
		{"ints.short", w.Short},
		{"ints.int", w.Int},
		{"ints.long", w.Long},
		{"ints.llong", w.LLong},
		{"ints.int128", w.Int128},
	}
	for i := 1; i < len(ranks); i++ {
		if ranks[i].width < ranks[i-1].width {
			return t.invalid(ranks[i].field, fmt.Sprintf("width %d is narrower than %s (%d)",
				ranks[i].width, ranks[i-1].field, ranks[i-1].width))
		}
	}
	for _, k := range FloatKinds {
		f := t.FloatFormat(k)
		if f.FWidth < 2 || f.EWidth < 2 || f.EWidth > MaxEWidth {
			return t.invalid("floats."+k.String(), fmt.Sprintf("unusable format %s", f))
		}
	}
	if t.PointerWidth == 0 {
		return t.invalid("pointer", "width must be positive")
	}
	return nil
}

func (t *Target) invalid(field, msg string) *LoadError {
	return &LoadError{
		Code:    ErrCodeInvalidTarget,
		Message: fmt.Sprintf("%s: %s: %s", t.Name, field, msg),
	}
}
