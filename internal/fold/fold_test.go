package fold

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/target"
)

func newFolder(t *testing.T, name string) *Folder {
	t.Helper()
	tgt, ok := arch.Lookup(name)
	require.True(t, ok, name)
	return New(tgt)
}

func mustParse(t *testing.T, f *Folder, s string) Value {
	t.Helper()
	v, err := f.ParseOperand(s)
	require.NoError(t, err, s)
	return v
}

func codes(r Result) []string {
	var out []string
	for _, d := range r.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestBinary(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")

	tests := []struct {
		name string
		op   Op
		a, b string
		want string
		diag []string
	}{
		{"int overflow wraps", OpAdd, "int:2147483647", "int:1", "int:-2147483648", []string{"SIGNED_OVERFLOW"}},
		{"unsigned wraps silently", OpAdd, "uint:4294967295", "int:1", "uint:0", nil},
		{"negative vs unsigned", OpLt, "int:-1", "uint:0", "int:0", nil},
		{"long holds uint", OpLt, "long:-1", "uint:0", "int:1", nil},
		{"char promotes", OpAdd, "char:100", "char:100", "int:200", nil},
		{"uchar product", OpMul, "uchar:255", "uchar:255", "int:65025", nil},
		{"mul overflow", OpMul, "int:65536", "int:65536", "int:0", []string{"SIGNED_OVERFLOW"}},
		{"sub overflow", OpSub, "int:-2147483648", "int:1", "int:2147483647", []string{"SIGNED_OVERFLOW"}},
		{"quo truncates", OpDiv, "int:7", "int:-2", "int:-3", nil},
		{"rem sign of dividend", OpRem, "int:-7", "int:2", "int:-1", nil},
		{"rem negative divisor", OpRem, "int:7", "int:-2", "int:1", nil},
		{"min over minus one", OpDiv, "int:-2147483648", "int:-1", "int:-2147483648", []string{"SIGNED_OVERFLOW"}},
		{"llong and", OpAnd, "llong:-1", "uint:255", "llong:255", nil},
		{"or", OpOr, "int:12", "int:3", "int:15", nil},
		{"xor", OpXor, "int:-1", "int:1", "int:-2", nil},
		{"eq", OpEq, "int:3", "long:3", "int:1", nil},
		{"ne", OpNe, "int:3", "long:3", "int:0", nil},
		{"ge", OpGe, "uint:0", "int:-1", "int:0", nil},
		{"le", OpLe, "int:2", "int:2", "int:1", nil},
		{"gt", OpGt, "ullong:1", "char:0", "int:1", nil},
		{"mixed int float", OpAdd, "int:1", "double:0.5", "double:1.5000000000000000e+00", nil},
		{"float widen", OpMul, "float:0.5", "double:3", "double:1.5000000000000000e+00", nil},
		{"float div by zero", OpDiv, "double:1", "double:0", "double:inf", nil},
		{"negative float div by zero", OpDiv, "double:-1", "double:0", "double:-inf", nil},
		{"zero over zero", OpDiv, "float:0", "float:0", "float:nan", nil},
		{"float gt int", OpGt, "float:1.5", "int:1", "int:1", nil},
		{"nan eq", OpEq, "float:nan", "float:nan", "int:0", nil},
		{"nan ne", OpNe, "float:nan", "float:nan", "int:1", nil},
		{"nan lt", OpLt, "double:nan", "double:1", "int:0", nil},
		{"logical and zero float", OpLogAnd, "double:0.0", "int:5", "int:0", nil},
		{"logical or nan", OpLogOr, "float:nan", "int:0", "int:1", nil},
		{"logical and", OpLogAnd, "int:2", "llong:-3", "int:1", nil},
		{"shl", OpShl, "uint:1", "int:31", "uint:2147483648", nil},
		{"shl promotes left only", OpShl, "char:1", "llong:3", "int:8", nil},
		{"shl into sign bit", OpShl, "int:1", "int:31", "int:-2147483648", []string{"SHIFT_OVERFLOW"}},
		{"shl by width", OpShl, "int:1", "int:32", "int:0", []string{"SHIFT_OVERFLOW"}},
		{"shr negative", OpShr, "int:-8", "int:1", "int:-4", nil},
		{"shr by width negative", OpShr, "int:-8", "int:40", "int:-1", []string{"SHIFT_OVERFLOW"}},
		{"shr by width positive", OpShr, "int:8", "uint:40", "int:0", []string{"SHIFT_OVERFLOW"}},
		{"shr unsigned", OpShr, "uint:4294967295", "int:28", "uint:15", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Binary(tt.op, mustParse(t, f, tt.a), mustParse(t, f, tt.b))
			require.NoError(t, err)
			require.NotNil(t, res.Value)
			assert.Equal(t, tt.want, FormatValue(res.Value))
			assert.Equal(t, tt.diag, codes(res))
		})
	}
}

func TestBinaryI386(t *testing.T) {
	f := newFolder(t, "i386-gcc")

	res, err := f.Binary(OpLt, mustParse(t, f, "long:-1"), mustParse(t, f, "uint:0"))
	require.NoError(t, err)
	assert.Equal(t, "int:0", FormatValue(res.Value), "long cannot hold every uint on i386")

	res, err = f.Binary(OpAdd, mustParse(t, f, "long:2147483647"), mustParse(t, f, "int:1"))
	require.NoError(t, err)
	assert.Equal(t, "long:-2147483648", FormatValue(res.Value))
	assert.Equal(t, []string{"SIGNED_OVERFLOW"}, codes(res))
}

func TestBinaryErrors(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")

	tests := []struct {
		name string
		op   Op
		a, b string
		code ErrorCode
	}{
		{"div by zero", OpDiv, "int:1", "int:0", ErrCodeDivisionByZero},
		{"rem by zero", OpRem, "ulong:1", "char:0", ErrCodeDivisionByZero},
		{"float rem", OpRem, "double:1", "double:2", ErrCodeInvalidOperands},
		{"float shl", OpShl, "double:1", "int:2", ErrCodeInvalidOperands},
		{"shl by float", OpShl, "int:1", "float:2", ErrCodeInvalidOperands},
		{"float and", OpAnd, "float:1", "int:2", ErrCodeInvalidOperands},
		{"negative shift", OpShl, "int:1", "int:-1", ErrCodeNegativeShift},
		{"negative shr", OpShr, "int:1", "llong:-40", ErrCodeNegativeShift},
		{"unknown op", Op("<=>"), "int:1", "int:2", ErrCodeInvalidOperands},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Binary(tt.op, mustParse(t, f, tt.a), mustParse(t, f, tt.b))
			require.Error(t, err)
			assert.True(t, IsFoldError(err, tt.code), "got %v", err)
		})
	}

	_, err := f.Binary(OpDiv, mustParse(t, f, "int:1"), mustParse(t, f, "int:0"))
	assert.ErrorIs(t, err, target.ErrDivisionByZero)
	assert.EqualError(t, err, "DIVISION_BY_ZERO: division by zero in constant expression (op=/): DIVISION_BY_ZERO: division by zero (op=div)")
}

func TestUnary(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")

	tests := []struct {
		name string
		op   Op
		v    string
		want string
		diag []string
	}{
		{"negate min", OpSub, "int:-2147483648", "int:-2147483648", []string{"SIGNED_OVERFLOW"}},
		{"negate unsigned", OpSub, "uint:1", "uint:4294967295", nil},
		{"negate char", OpSub, "char:-128", "int:128", nil},
		{"plus promotes", OpAdd, "char:-5", "int:-5", nil},
		{"complement uchar", OpNot, "uchar:0", "int:-1", nil},
		{"complement ulong", OpNot, "ulong:0", "ulong:18446744073709551615", nil},
		{"not zero float", OpLogNot, "double:0.0", "int:1", nil},
		{"not nan", OpLogNot, "float:nan", "int:0", nil},
		{"not int", OpLogNot, "llong:7", "int:0", nil},
		{"negate zero float", OpSub, "float:0.0", "float:-0.0", nil},
		{"negate inf", OpSub, "double:inf", "double:-inf", nil},
		{"plus float", OpAdd, "float:2", "float:2.00000000e+00", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Unary(tt.op, mustParse(t, f, tt.v))
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatValue(res.Value))
			assert.Equal(t, tt.diag, codes(res))
		})
	}

	_, err := f.Unary(OpNot, mustParse(t, f, "float:1"))
	assert.True(t, IsFoldError(err, ErrCodeInvalidOperands))
	_, err = f.Unary(OpMul, mustParse(t, f, "int:1"))
	assert.True(t, IsFoldError(err, ErrCodeInvalidOperands))
}

func TestCast(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")

	tests := []struct {
		name string
		v    string
		kind string
		want string
		diag []string
	}{
		{"truncate unsigned", "int:300", "uchar", "uchar:44", nil},
		{"signed overflow wraps", "int:300", "schar", "schar:44", []string{"SIGNED_OVERFLOW"}},
		{"signed overflow negative", "int:200", "char", "char:-56", []string{"SIGNED_OVERFLOW"}},
		{"sign extend", "schar:-1", "ullong", "ullong:18446744073709551615", nil},
		{"widen", "short:-3", "long", "long:-3", nil},
		{"float truncates", "double:3.9", "int", "int:3", nil},
		{"float truncates toward zero", "double:-3.9", "int", "int:-3", nil},
		{"float wraps into unsigned", "double:1e10", "uint", "uint:1410065408", nil},
		{"double to float", "double:0.1", "float", "float:1.00000001e-01", nil},
		{"int to float rounds", "int:16777217", "float", "float:1.67772160e+07", nil},
		{"float to double exact", "float:0.5", "double", "double:5.0000000000000000e-01", nil},
		{"overflow to inf", "double:1e300", "float", "float:inf", nil},
		{"nan survives", "float:-nan", "ldouble", "ldouble:nan", nil},
		{"bool of half", "double:0.5", "bool", "bool:1", nil},
		{"bool of zero", "double:-0.0", "bool", "bool:0", nil},
		{"bool does not wrap", "int:256", "bool", "bool:1", nil},
		{"bool of nan", "float:nan", "bool", "bool:1", nil},
		{"bool to int", "bool:1", "int", "int:1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := ParseKind(tt.kind)
			require.True(t, ok)
			res, err := f.Cast(mustParse(t, f, tt.v), k)
			require.NoError(t, err)
			require.NotNil(t, res.Value)
			assert.Equal(t, tt.want, FormatValue(res.Value))
			assert.Equal(t, tt.diag, codes(res))
		})
	}
}

func TestCastFloatToIntOverflow(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")

	for _, s := range []string{"double:1e10", "double:-2147483649", "double:nan", "float:-inf"} {
		t.Run(s, func(t *testing.T) {
			res, err := f.Cast(mustParse(t, f, s), IntType(arch.Int))
			require.NoError(t, err)
			assert.Nil(t, res.Value)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
			assert.Equal(t, "FLOAT_TO_INT_OVERFLOW", res.Diagnostics[0].Code)
		})
	}

	res, err := f.Cast(mustParse(t, f, "double:-2147483648.9"), IntType(arch.Int))
	require.NoError(t, err)
	assert.Equal(t, "int:-2147483648", FormatValue(res.Value))
	assert.Empty(t, res.Diagnostics)
}

func TestCommonKind(t *testing.T) {
	x86, i386 := newFolder(t, "x86_64-gcc"), newFolder(t, "i386-gcc")

	tests := []struct {
		f          *Folder
		a, b, want string
	}{
		{x86, "char", "short", "int"},
		{x86, "bool", "bool", "int"},
		{x86, "int", "uint", "uint"},
		{x86, "long", "uint", "long"},
		{i386, "long", "uint", "ulong"},
		{x86, "ulong", "llong", "ullong"},
		{i386, "ulong", "llong", "llong"},
		{x86, "uint128", "int128", "uint128"},
		{x86, "llong", "int128", "int128"},
		{x86, "float", "int", "float"},
		{x86, "ullong", "ldouble", "ldouble"},
		{x86, "double", "float", "double"},
		{x86, "float", "float", "float"},
	}
	for _, tt := range tests {
		t.Run(tt.f.Target.Name+"/"+tt.a+"+"+tt.b, func(t *testing.T) {
			a, _ := ParseKind(tt.a)
			b, _ := ParseKind(tt.b)
			assert.Equal(t, tt.want, tt.f.CommonKind(a, b).String())
			assert.Equal(t, tt.want, tt.f.CommonKind(b, a).String())
		})
	}
}

func TestPromote(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")
	assert.Equal(t, arch.Int, f.Promote(arch.UShort))
	assert.Equal(t, arch.Int, f.Promote(arch.Bool))
	assert.Equal(t, arch.UInt, f.Promote(arch.UInt))
	assert.Equal(t, arch.Long, f.Promote(arch.Long))

	// 16 bit int: unsigned short no longer fits.
	tgt, _ := arch.Lookup("x86_64-gcc")
	tgt.IntWidths.Int = 16
	small := New(tgt)
	assert.Equal(t, arch.UInt, small.Promote(arch.UShort))
	assert.Equal(t, arch.Int, small.Promote(arch.UChar))
	assert.Equal(t, arch.Int, small.Promote(arch.Short))
}

func TestFolderInt(t *testing.T) {
	f := newFolder(t, "x86_64-gcc")
	v := f.Int(arch.UChar, big.NewInt(-1))
	assert.Equal(t, "uchar:255", v.String())
	assert.Equal(t, IntType(arch.UChar), v.Kind())
}
