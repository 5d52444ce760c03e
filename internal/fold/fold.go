package fold

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/target"
)

// Op is a C operator.
type Op string

// Binary operators.
const (
	OpAdd    Op = "+"
	OpSub    Op = "-"
	OpMul    Op = "*"
	OpDiv    Op = "/"
	OpRem    Op = "%"
	OpShl    Op = "<<"
	OpShr    Op = ">>"
	OpAnd    Op = "&"
	OpOr     Op = "|"
	OpXor    Op = "^"
	OpEq     Op = "=="
	OpNe     Op = "!="
	OpLt     Op = "<"
	OpGt     Op = ">"
	OpLe     Op = "<="
	OpGe     Op = ">="
	OpLogAnd Op = "&&"
	OpLogOr  Op = "||"
)

// Unary operators. OpAdd and OpSub double as unary plus and minus.
const (
	OpNot    Op = "~"
	OpLogNot Op = "!"
)

// BinaryOps lists every operator Binary accepts.
var BinaryOps = []Op{
	OpAdd, OpSub, OpMul, OpDiv, OpRem, OpShl, OpShr, OpAnd, OpOr, OpXor,
	OpEq, OpNe, OpLt, OpGt, OpLe, OpGe, OpLogAnd, OpLogOr,
}

// UnaryOps lists every operator Unary accepts.
var UnaryOps = []Op{OpAdd, OpSub, OpNot, OpLogNot}

// Severity of a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityFatal   Severity = "fatal"
)

// Diagnostic is a message attached to a fold result.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Code, d.Message)
}

// Result is the outcome of a fold that did not fail fatally. Value is nil
// when the expression has no constant value (a float to integer conversion
// out of range).
type Result struct {
	Value       Value
	Diagnostics []Diagnostic
}

func (r *Result) warn(code target.ErrorCode, format string, args ...any) {
	d := Diagnostic{Severity: SeverityWarning, Code: string(code), Message: fmt.Sprintf(format, args...)}
	slog.Debug("fold diagnostic", "severity", d.Severity, "code", d.Code, "message", d.Message)
	r.Diagnostics = append(r.Diagnostics, d)
}

// Folder evaluates C constant expressions for one target.
type Folder struct {
	Target *arch.Target
}

// New returns a Folder for t.
func New(t *arch.Target) *Folder {
	return &Folder{Target: t}
}

// Int returns the integer constant x of kind k, wrapping it into range.
func (f *Folder) Int(k arch.IntKind, x *big.Int) Int {
	prec, signed := f.Target.IntPrec(k)
	return Int{Type: k, V: target.WrapBig(prec, signed, x)}
}

func (f *Folder) boolInt(b bool) Int {
	if b {
		return f.Int(arch.Int, big.NewInt(1))
	}
	return f.Int(arch.Int, new(big.Int))
}

func invalid(op Op, format string, args ...any) error {
	return &FoldError{Code: ErrCodeInvalidOperands, Op: string(op), Message: fmt.Sprintf(format, args...)}
}

// Binary folds a op b.
func (f *Folder) Binary(op Op, a, b Value) (Result, error) {
	slog.Debug("fold binary", "op", op, "lhs", a, "rhs", b)
	switch op {
	case OpLogAnd:
		return Result{Value: f.boolInt(Truth(a) && Truth(b))}, nil
	case OpLogOr:
		return Result{Value: f.boolInt(Truth(a) || Truth(b))}, nil
	case OpShl, OpShr:
		return f.shift(op, a, b)
	}

	common := f.CommonKind(a.Kind(), b.Kind())
	a, b = f.convert(a, common), f.convert(b, common)

	switch x := a.(type) {
	case Int:
		return f.binaryInt(op, x, b.(Int))
	case Float:
		return f.binaryFloat(op, x, b.(Float))
	}
	return Result{}, invalid(op, "unknown operand type %T", a)
}

func (f *Folder) binaryInt(op Op, a, b Int) (Result, error) {
	var res Result
	x, y := a.V, b.V
	var (
		v     target.Int
		err   error
		exact func() *big.Int
	)
	switch op {
	case OpAdd:
		v, err = x.Add(y)
		exact = func() *big.Int { return new(big.Int).Add(x.BigInt(), y.BigInt()) }
	case OpSub:
		v, err = x.Sub(y)
		exact = func() *big.Int { return new(big.Int).Sub(x.BigInt(), y.BigInt()) }
	case OpMul:
		v, err = x.Mul(y)
		exact = func() *big.Int { return new(big.Int).Mul(x.BigInt(), y.BigInt()) }
	case OpDiv:
		v, err = x.Quo(y)
		exact = func() *big.Int { return new(big.Int).Quo(x.BigInt(), y.BigInt()) }
	case OpRem:
		v, err = x.Rem(y)
		exact = func() *big.Int { return new(big.Int).Rem(x.BigInt(), y.BigInt()) }
	case OpAnd:
		v = x.And(y)
	case OpOr:
		v = x.Or(y)
	case OpXor:
		v = x.Xor(y)
	case OpEq:
		return Result{Value: f.boolInt(x.Equal(y))}, nil
	case OpNe:
		return Result{Value: f.boolInt(!x.Equal(y))}, nil
	case OpLt:
		return Result{Value: f.boolInt(x.Less(y))}, nil
	case OpGt:
		return Result{Value: f.boolInt(y.Less(x))}, nil
	case OpLe:
		return Result{Value: f.boolInt(x.LessEqual(y))}, nil
	case OpGe:
		return Result{Value: f.boolInt(y.LessEqual(x))}, nil
	default:
		return Result{}, invalid(op, "not a binary operator")
	}

	switch {
	case err == nil:
	case target.IsDivisionByZero(err):
		return Result{}, &FoldError{Code: ErrCodeDivisionByZero, Op: string(op), Message: "division by zero in constant expression", Err: err}
	case errors.Is(err, target.ErrSignedOverflow):
		res.warn(target.ErrCodeSignedOverflow, "integer overflow in expression of type %s", a.Type)
		v = f.Int(a.Type, exact()).V
	default:
		return Result{}, err
	}
	res.Value = Int{Type: a.Type, V: v}
	return res, nil
}

func (f *Folder) binaryFloat(op Op, a, b Float) (Result, error) {
	x, y := a.V, b.V
	var v target.Float
	switch op {
	case OpAdd:
		v = x.Add(y)
	case OpSub:
		v = x.Sub(y)
	case OpMul:
		v = x.Mul(y)
	case OpDiv:
		v = x.Div(y)
	case OpEq:
		return Result{Value: f.boolInt(x.Equal(y))}, nil
	case OpNe:
		return Result{Value: f.boolInt(!x.Equal(y))}, nil
	case OpLt:
		return Result{Value: f.boolInt(x.Less(y))}, nil
	case OpGt:
		return Result{Value: f.boolInt(y.Less(x))}, nil
	case OpLe:
		return Result{Value: f.boolInt(x.LessEqual(y))}, nil
	case OpGe:
		return Result{Value: f.boolInt(y.LessEqual(x))}, nil
	default:
		return Result{}, invalid(op, "operands of type %s", a.Type)
	}
	return Result{Value: Float{Type: a.Type, V: v}}, nil
}

// shift folds a << b or a >> b. The operands are promoted separately and the
// result has the promoted type of a.
func (f *Folder) shift(op Op, a, b Value) (Result, error) {
	x, ok := a.(Int)
	if !ok {
		return Result{}, invalid(op, "left operand of type %s", a.Kind())
	}
	d, ok := b.(Int)
	if !ok {
		return Result{}, invalid(op, "right operand of type %s", b.Kind())
	}
	x = f.convert(x, IntType(f.Promote(x.Type))).(Int)
	d = f.convert(d, IntType(f.Promote(d.Type))).(Int)

	if d.V.IsNegative() {
		return Result{}, &FoldError{Code: ErrCodeNegativeShift, Op: string(op), Message: fmt.Sprintf("shift by negative distance %s", d.V)}
	}

	var (
		res Result
		v   target.Int
		err error
	)
	if op == OpShl {
		v, err = x.V.Shl(d.V)
	} else {
		v, err = x.V.Shr(d.V)
	}
	if err == nil {
		res.Value = Int{Type: x.Type, V: v}
		return res, nil
	}
	if !errors.Is(err, target.ErrShiftOverflow) {
		return Result{}, err
	}

	n := d.V.BigInt()
	if n.Cmp(big.NewInt(int64(x.V.Width()))) >= 0 {
		res.warn(target.ErrCodeShiftOverflow, "shift distance %s exceeds integer width %d", n, x.V.Width())
		fill := new(big.Int)
		if op == OpShr && x.V.IsNegative() {
			fill.SetInt64(-1)
		}
		res.Value = f.Int(x.Type, fill)
		return res, nil
	}

	// Only a left shift can fail with an in-range distance.
	res.warn(target.ErrCodeShiftOverflow, "left shift of %s by %s overflows %s", x.V, n, x.Type)
	res.Value = f.Int(x.Type, new(big.Int).Lsh(x.V.BigInt(), uint(n.Uint64())))
	return res, nil
}

// Unary folds op v.
func (f *Folder) Unary(op Op, v Value) (Result, error) {
	slog.Debug("fold unary", "op", op, "operand", v)
	if op == OpLogNot {
		return Result{Value: f.boolInt(!Truth(v))}, nil
	}

	switch x := v.(type) {
	case Float:
		switch op {
		case OpAdd:
			return Result{Value: x}, nil
		case OpSub:
			return Result{Value: Float{Type: x.Type, V: x.V.Neg()}}, nil
		case OpNot:
			return Result{}, invalid(op, "operand of type %s", x.Type)
		}
	case Int:
		x = f.convert(x, IntType(f.Promote(x.Type))).(Int)
		switch op {
		case OpAdd:
			return Result{Value: x}, nil
		case OpNot:
			return Result{Value: Int{Type: x.Type, V: x.V.Not()}}, nil
		case OpSub:
			var res Result
			n, err := x.V.Neg()
			if err != nil {
				res.warn(target.ErrCodeSignedOverflow, "integer overflow in negation of type %s", x.Type)
				n = f.Int(x.Type, new(big.Int).Neg(x.V.BigInt())).V
			}
			res.Value = Int{Type: x.Type, V: n}
			return res, nil
		}
	}
	return Result{}, invalid(op, "not a unary operator")
}

// Cast folds (k)v.
func (f *Folder) Cast(v Value, k Kind) (Result, error) {
	slog.Debug("fold cast", "operand", v, "kind", k)
	return f.cast(v, k)
}

func (f *Folder) cast(v Value, k Kind) (Result, error) {
	var res Result

	if k.IsFloat() {
		format := f.Target.FloatFormat(k.FloatKind())
		switch x := v.(type) {
		case Int:
			res.Value = Float{Type: k.FloatKind(), V: x.V.ToFloat(format.FWidth, format.EWidth)}
		case Float:
			res.Value = Float{Type: k.FloatKind(), V: x.V.Convert(format.FWidth, format.EWidth)}
		}
		return res, nil
	}

	kind := k.IntKind()
	if kind == arch.Bool {
		// Conversion to _Bool compares against zero.
		b := new(big.Int)
		if Truth(v) {
			b.SetInt64(1)
		}
		res.Value = f.Int(kind, b)
		return res, nil
	}

	prec, signed := f.Target.IntPrec(kind)
	switch x := v.(type) {
	case Int:
		n, err := x.V.Convert(prec, signed)
		if err != nil {
			res.warn(target.ErrCodeSignedOverflow, "integer overflow in cast from %s to %s", x.Type, kind)
			n = target.WrapBig(prec, signed, x.V.BigInt())
		}
		res.Value = Int{Type: kind, V: n}
	case Float:
		n, err := x.V.ToInt(prec, signed)
		if err != nil {
			res.warn(target.ErrCodeFloatToIntOverflow, "overflow in conversion from %s to %s", x.Type, kind)
			return res, nil
		}
		res.Value = Int{Type: kind, V: n}
	}
	return res, nil
}
