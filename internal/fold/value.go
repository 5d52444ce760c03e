package fold

import (
	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/target"
)

// Kind names a C arithmetic type: one of the integer kinds or one of the
// floating kinds.
type Kind struct {
	float bool
	i     arch.IntKind
	f     arch.FloatKind
}

// IntType returns the Kind of an integer type.
func IntType(k arch.IntKind) Kind { return Kind{i: k} }

// FloatType returns the Kind of a floating type.
func FloatType(k arch.FloatKind) Kind { return Kind{float: true, f: k} }

// ParseKind maps a kind name ("int", "ullong", "double", ...) to a Kind.
func ParseKind(s string) (Kind, bool) {
	if k, ok := arch.ParseIntKind(s); ok {
		return IntType(k), true
	}
	if k, ok := arch.ParseFloatKind(s); ok {
		return FloatType(k), true
	}
	return Kind{}, false
}

// IsFloat reports whether k is a floating type.
func (k Kind) IsFloat() bool { return k.float }

// IntKind returns the integer kind. Only meaningful when !IsFloat().
func (k Kind) IntKind() arch.IntKind { return k.i }

// FloatKind returns the floating kind. Only meaningful when IsFloat().
func (k Kind) FloatKind() arch.FloatKind { return k.f }

func (k Kind) String() string {
	if k.float {
		return k.f.String()
	}
	return k.i.String()
}

// Value is a folded constant. It is a sealed interface: Int and Float are
// the only implementations.
type Value interface {
	foldValue() // Sealed
	Kind() Kind
	String() string
}

// Int is an integer constant of a given C type.
type Int struct {
	Type arch.IntKind
	V    target.Int
}

func (Int) foldValue() {}

// Kind returns the constant's type.
func (v Int) Kind() Kind { return IntType(v.Type) }

// String formats the constant in operand notation.
func (v Int) String() string { return FormatValue(v) }

// Float is a floating constant of a given C type.
type Float struct {
	Type arch.FloatKind
	V    target.Float
}

func (Float) foldValue() {}

// Kind returns the constant's type.
func (v Float) Kind() Kind { return FloatType(v.Type) }

// String formats the constant in operand notation.
func (v Float) String() string { return FormatValue(v) }

// Truth is C's truth value of v: non-zero integers and non-zero floats
// (NaN included) are true.
func Truth(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v.V.Bool()
	case Float:
		return !v.V.IsZero()
	}
	return false
}
