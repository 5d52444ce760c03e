package target

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimalExtremes(t *testing.T) {
	maxFloat := f2(1<<24-1, 127-23)
	assert.Equal(t, "3.40282346638528859811704183484516925e+38", maxFloat.ToDecimal(36))

	minSub := f2(1, minExp2)
	assert.Equal(t, "1.40129846432481707092372958328991613e-45", minSub.ToDecimal(36))
}

func TestToDecimalSpecials(t *testing.T) {
	assert.Equal(t, "0.0", FloatZero(fw, ew, false).ToDecimal(9))
	assert.Equal(t, "-0.0", FloatZero(fw, ew, true).ToDecimal(9))
	assert.Equal(t, "+Inf", Inf(fw, ew, false).ToDecimal(9))
	assert.Equal(t, "-Inf", Inf(fw, ew, true).ToDecimal(9))
	assert.Equal(t, "+SNaN", NaN(fw, ew).ToDecimal(9))
	assert.Equal(t, "-SNaN", NaN(fw, ew).Neg().ToDecimal(9))
}

func TestToDecimalCarry(t *testing.T) {
	// 9.96875 to two digits carries into a new leading digit.
	x := f2(319, -5)
	assert.Equal(t, "1.0e+01", x.ToDecimal(2))
	assert.Equal(t, "9.97e+00", x.ToDecimal(3))

	neg, digits, exp := x.Neg().DecimalParts(1)
	assert.True(t, neg)
	assert.Equal(t, "1", digits)
	assert.Equal(t, int64(1), exp)
}

func TestDecimalPartsPanics(t *testing.T) {
	assert.Panics(t, func() { FloatZero(fw, ew, false).DecimalParts(3) })
	assert.Panics(t, func() { NaN(fw, ew).DecimalParts(3) })
	assert.Panics(t, func() { f2(1, 0).DecimalParts(0) })
}

func TestFloatString(t *testing.T) {
	assert.Equal(t, "1.00000001e-01", FromBase10Exp(fw, ew, big.NewInt(1), big.NewInt(-1)).String())
	assert.Equal(t, "1.0000000000000001e-01", FromBase10Exp(53, 11, big.NewInt(1), big.NewInt(-1)).String())
}

type decimalRow struct {
	name   string
	fw, ew uint
	m      string // hex, optionally negative
	e2     int64
	digits []uint
}

var decimalTable = []decimalRow{
	{"float max", 24, 8, "ffffff", 104, []uint{1, 9, 36}},
	{"float min subnormal", 24, 8, "1", -149, []uint{1, 9, 36}},
	{"float min normal", 24, 8, "1", -126, []uint{9, 17}},
	{"float one", 24, 8, "1", 0, []uint{1, 2, 9}},
	{"float one third", 24, 8, "aaaaab", -25, []uint{3, 9, 20}},
	{"float tenth", 24, 8, "cccccd", -27, []uint{1, 9, 17}},
	{"float minus 2.5", 24, 8, "-5", -1, []uint{1, 2, 3}},
	{"float 9.5", 24, 8, "13", -1, []uint{1, 2}},
	{"float 0.95", 24, 8, "f33333", -24, []uint{1, 2, 9}},
	{"double max", 53, 11, "1fffffffffffff", 1023 - 52, []uint{17, 25}},
	{"double min subnormal", 53, 11, "1", -1074, []uint{1, 17}},
	{"double tenth", 53, 11, "1999999999999a", -56, []uint{17, 30}},
	{"double 1e23", 53, 11, "152d02c7e14af6", 24, []uint{17, 23}},
	{"ldouble max", 113, 15, "1ffffffffffffffffffffffffffff", 16383 - 112, []uint{36}},
	{"ldouble min subnormal", 113, 15, "1", -16494, []uint{36}},
}

func TestToDecimalGolden(t *testing.T) {
	var sb strings.Builder
	for _, row := range decimalTable {
		x := FromBase2Exp(row.fw, row.ew, bigHex(t, row.m), big.NewInt(row.e2))
		for _, n := range row.digits {
			fmt.Fprintf(&sb, "%s (%d,%d) digits=%d: %s\n", row.name, row.fw, row.ew, n, x.ToDecimal(n))
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "decimal_table", []byte(sb.String()))
}

// oracleDigits rounds the exact value of a finite non-zero x to n digits
// with apd and returns the digit string and decimal exponent.
func oracleDigits(t *testing.T, x Float, n uint) (string, int64) {
	t.Helper()
	k := x.Exponent().Unsigned()
	k.Sub(k, finiteBias(x.FWidth(), x.EWidth()))
	require.True(t, k.IsInt64())

	coeff := x.Significand().Unsigned()
	exp := int32(0)
	if k.Sign() >= 0 {
		coeff.Lsh(coeff, uint(k.Int64()))
	} else {
		// f * 2^-j == f * 5^j * 10^-j
		j := new(big.Int).Neg(k)
		coeff.Mul(coeff, new(big.Int).Exp(big.NewInt(5), j, nil))
		exp = int32(k.Int64())
	}
	exact := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(coeff), exp)

	ctx := apd.BaseContext.WithPrecision(uint32(n))
	ctx.Rounding = apd.RoundHalfEven
	var d apd.Decimal
	_, err := ctx.Round(&d, exact)
	require.NoError(t, err)

	digits := d.Coeff.String()
	e10 := int64(d.Exponent) + int64(len(digits)) - 1
	if pad := int(n) - len(digits); pad > 0 {
		digits += strings.Repeat("0", pad)
	}
	return digits, e10
}

func TestDecimalPartsAgainstApd(t *testing.T) {
	rng := rand.New(rand.NewSource(20241015))
	formats := []struct{ fw, ew uint }{{24, 8}, {53, 11}, {64, 15}}

	for i := 0; i < 400; i++ {
		f := formats[i%len(formats)]
		m := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), f.fw))
		span := int64(1) << (f.ew - 1)
		e2 := rng.Int63n(2*span+int64(f.fw)) - span - int64(f.fw)
		x := FromBase2Exp(f.fw, f.ew, m, big.NewInt(e2))
		if x.IsZero() || x.IsInf() {
			continue
		}
		n := uint(rng.Intn(40)) + 1

		neg, digits, exp := x.DecimalParts(n)
		wantDigits, wantExp := oracleDigits(t, x, n)
		assert.False(t, neg)
		assert.Equal(t, wantDigits, digits, "m=%s e2=%d n=%d", m, e2, n)
		assert.Equal(t, wantExp, exp, "m=%s e2=%d n=%d", m, e2, n)
	}
}

func TestFromBase10RoundTripsShortestDigits(t *testing.T) {
	// Printing max_digits10 digits and reading them back is the identity.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		m := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 53))
		e2 := rng.Int63n(400) - 200
		x := FromBase2Exp(53, 11, m, big.NewInt(e2))
		if x.IsZero() {
			continue
		}
		n := MaxDigits10(53)
		_, digits, exp := x.DecimalParts(n)
		mant, ok := new(big.Int).SetString(digits, 10)
		require.True(t, ok)
		back := FromBase10Exp(53, 11, mant, big.NewInt(exp-int64(n)+1))
		assertSameFloat(t, x, back)
	}
}
