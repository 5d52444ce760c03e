package fold

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/roach88/ccfold/internal/target"
)

// ParseOperand reads a constant in operand notation, "<kind>:<number>".
//
// Integer kinds accept [-]digits and [-]0x hexdigits. Floating kinds also
// accept [-]digits[.digits][e[+-]digits], [-]0x hex[.hex][p[+-]digits],
// inf and nan, rounded to the kind's format. This is a notation for tools
// and tests, not C literal syntax: there are no suffixes and the sign is
// part of the number.
func (f *Folder) ParseOperand(s string) (Value, error) {
	name, num, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return nil, badOperand(s, "want <kind>:<number>")
	}
	k, ok := ParseKind(name)
	if !ok {
		return nil, badOperand(s, fmt.Sprintf("unknown kind %q", name))
	}
	if k.IsFloat() {
		v, err := f.parseFloat(k, num)
		if err != nil {
			return nil, badOperand(s, err.Error())
		}
		return v, nil
	}
	v, err := f.parseInt(k, num)
	if err != nil {
		return nil, badOperand(s, err.Error())
	}
	return v, nil
}

func badOperand(s, msg string) error {
	return &FoldError{Code: ErrCodeBadOperand, Message: fmt.Sprintf("%q: %s", s, msg)}
}

func cutSign(num string) (string, bool) {
	switch {
	case strings.HasPrefix(num, "-"):
		return num[1:], true
	case strings.HasPrefix(num, "+"):
		return num[1:], false
	}
	return num, false
}

func cutHex(num string) (string, bool) {
	if len(num) > 2 && num[0] == '0' && (num[1] == 'x' || num[1] == 'X') {
		return num[2:], true
	}
	return num, false
}

func (f *Folder) parseInt(k Kind, num string) (Value, error) {
	digits, neg := cutSign(num)
	digits, hex := cutHex(digits)
	base := 10
	if hex {
		base = 16
	}
	prec, signed := f.Target.IntPrec(k.IntKind())
	v, err := parseSignedInt(digits, base, neg, prec, signed)
	if target.IsOverflow(err) {
		return nil, fmt.Errorf("%s out of range for %s", num, k)
	}
	if err != nil {
		return nil, err
	}
	return Int{Type: k.IntKind(), V: v}, nil
}

// parseSignedInt reads the magnitude digits and applies the sign. A
// negative magnitude is read one bit wider so that -2^prec parses.
func parseSignedInt(digits string, base int, neg bool, prec uint, signed bool) (target.Int, error) {
	if !neg {
		return target.Parse(digits, base, prec, signed)
	}
	m, err := target.Parse(digits, base, prec+1, true)
	if err != nil {
		return target.Int{}, err
	}
	if !signed && !m.IsZero() {
		return target.Int{}, target.ErrSignedOverflow
	}
	if m, err = m.Neg(); err != nil {
		return target.Int{}, err
	}
	return m.Convert(prec, signed)
}

func isDigits(s string, base int) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		default:
			return false
		}
	}
	return true
}

func (f *Folder) parseFloat(k Kind, num string) (Value, error) {
	format := f.Target.FloatFormat(k.FloatKind())
	fw, ew := format.FWidth, format.EWidth
	body, neg := cutSign(num)

	var v target.Float
	switch strings.ToLower(body) {
	case "inf", "infinity":
		v = target.Inf(fw, ew, neg)
	case "nan":
		v = target.NaN(fw, ew)
		if neg {
			v = v.Neg()
		}
	default:
		var err error
		v, err = parseFloatNumber(fw, ew, body, neg)
		if err != nil {
			return nil, err
		}
	}
	return Float{Type: k.FloatKind(), V: v}, nil
}

// parseFloatNumber reads an unsigned decimal or hexadecimal floating number
// and rounds it once to the format.
func parseFloatNumber(fw, ew uint, body string, neg bool) (target.Float, error) {
	body, hex := cutHex(body)
	base, expMark, digitBits := 10, "e", int64(0)
	if hex {
		base, expMark, digitBits = 16, "p", 4
	}

	mant, exp, hasExp := strings.ToLower(body), "", false
	if i := strings.Index(mant, expMark); i >= 0 {
		mant, exp, hasExp = mant[:i], mant[i+1:], true
	}
	intPart, frac, _ := strings.Cut(mant, ".")
	if intPart+frac == "" || !isDigits(intPart, base) || !isDigits(frac, base) {
		return target.Float{}, fmt.Errorf("malformed significand %q", mant)
	}

	m, _ := new(big.Int).SetString(intPart+frac, base)
	e := new(big.Int)
	if hasExp {
		digits, eneg := cutSign(exp)
		if digits == "" || !isDigits(digits, 10) {
			return target.Float{}, fmt.Errorf("malformed exponent %q", exp)
		}
		e.SetString(digits, 10)
		if eneg {
			e.Neg(e)
		}
	}
	if neg {
		m.Neg(m)
	}

	if hex {
		e.Sub(e, big.NewInt(digitBits*int64(len(frac))))
		if m.Sign() == 0 {
			return target.FloatZero(fw, ew, neg), nil
		}
		return target.FromBase2Exp(fw, ew, m, e), nil
	}
	e.Sub(e, big.NewInt(int64(len(frac))))
	if m.Sign() == 0 {
		return target.FloatZero(fw, ew, neg), nil
	}
	return target.FromBase10Exp(fw, ew, m, e), nil
}

// FormatValue prints v in operand notation. Floats carry max_digits10
// significant digits, so ParseOperand reads back the identical value.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case Int:
		return v.Type.String() + ":" + v.V.String()
	case Float:
		return v.Type.String() + ":" + formatFloat(v.V)
	}
	return "<nil>"
}

func formatFloat(x target.Float) string {
	sign := ""
	if x.IsNegative() {
		sign = "-"
	}
	switch {
	case x.IsNaN():
		return sign + "nan"
	case x.IsInf():
		return sign + "inf"
	}
	return x.ToDecimal(target.MaxDigits10(x.FWidth()))
}
