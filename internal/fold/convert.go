package fold

import (
	"github.com/roach88/ccfold/internal/arch"
)

// Promote applies the integer promotions (C11 6.3.1.1p2): a kind ranked below
// int becomes int when int can hold all its values, otherwise unsigned int.
// Other kinds are returned unchanged.
func (f *Folder) Promote(k arch.IntKind) arch.IntKind {
	if k.Rank() >= arch.Int.Rank() {
		return k
	}
	prec, signed := f.Target.IntPrec(k)
	intPrec, _ := f.Target.IntPrec(arch.Int)
	if signed || prec <= intPrec {
		return arch.Int
	}
	return arch.UInt
}

// CommonKind returns the type of the usual arithmetic conversions
// (C11 6.3.1.8) for operands of kinds a and b.
func (f *Folder) CommonKind(a, b Kind) Kind {
	if a.IsFloat() || b.IsFloat() {
		switch {
		case !a.IsFloat():
			return b
		case !b.IsFloat():
			return a
		case a.FloatKind() >= b.FloatKind():
			return a
		default:
			return b
		}
	}
	return IntType(f.commonIntKind(a.IntKind(), b.IntKind()))
}

func (f *Folder) commonIntKind(a, b arch.IntKind) arch.IntKind {
	a, b = f.Promote(a), f.Promote(b)
	if a == b {
		return a
	}
	aPrec, aSigned := f.Target.IntPrec(a)
	bPrec, bSigned := f.Target.IntPrec(b)
	if aSigned == bSigned {
		if a.Rank() >= b.Rank() {
			return a
		}
		return b
	}

	// Order so that u is the unsigned operand and s the signed one.
	u, s, uPrec, sPrec := a, b, aPrec, bPrec
	if aSigned {
		u, s, uPrec, sPrec = b, a, bPrec, aPrec
	}
	switch {
	case u.Rank() >= s.Rank():
		return u
	case sPrec >= uPrec:
		return s
	default:
		return s.ToUnsigned()
	}
}

// convert brings v to kind k without diagnostics. Used for operands of the
// usual arithmetic conversions, where the common type holds every value
// exactly or by definition wraps.
func (f *Folder) convert(v Value, k Kind) Value {
	res, _ := f.cast(v, k)
	return res.Value
}
