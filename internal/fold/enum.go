package fold

import (
	"fmt"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/target"
)

// MinEnumPrecision returns the smallest integer configuration holding every
// enumerator value: signed when any value is negative, with a precision of
// at least 1.
func MinEnumPrecision(values []target.Int) (prec uint, signed bool) {
	prec = 1
	for _, v := range values {
		p := v.MinRequiredWidth()
		if v.IsNegative() {
			signed = true
			p--
		}
		prec = max(prec, p)
	}
	return prec, signed
}

var (
	signedEnumKinds   = []arch.IntKind{arch.Int, arch.Long, arch.LLong, arch.Int128}
	unsignedEnumKinds = []arch.IntKind{arch.UInt, arch.ULong, arch.ULLong, arch.UInt128}
)

// EnumKind picks the underlying type of an enumeration with the given
// values: the first of unsigned int, unsigned long, ... (or int, long, ...
// when a value is negative) wide enough for all of them.
func (f *Folder) EnumKind(values []target.Int) (arch.IntKind, error) {
	need, signed := MinEnumPrecision(values)
	kinds := unsignedEnumKinds
	if signed {
		kinds = signedEnumKinds
	}
	for _, k := range kinds {
		if prec, _ := f.Target.IntPrec(k); prec >= need {
			return k, nil
		}
	}
	return 0, &FoldError{
		Code:    ErrCodeEnumOverflow,
		Message: fmt.Sprintf("enumerator values need %d bits of precision (signed=%t)", need, signed),
	}
}
