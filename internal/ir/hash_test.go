package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldIDDeterminism(t *testing.T) {
	ops := []string{"int:2147483647", "int:1"}

	id1, err := FoldID("run-1", 1, "x86_64-gcc", "+", ops)
	require.NoError(t, err)
	id2, err := FoldID("run-1", 1, "x86_64-gcc", "+", ops)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestFoldIDChangesWithInput(t *testing.T) {
	ops := []string{"int:1", "int:2"}
	base := MustFoldID("run-1", 1, "x86_64-gcc", "+", ops)

	assert.NotEqual(t, base, MustFoldID("run-2", 1, "x86_64-gcc", "+", ops), "run")
	assert.NotEqual(t, base, MustFoldID("run-1", 2, "x86_64-gcc", "+", ops), "seq")
	assert.NotEqual(t, base, MustFoldID("run-1", 1, "i386-gcc", "+", ops), "target")
	assert.NotEqual(t, base, MustFoldID("run-1", 1, "x86_64-gcc", "-", ops), "op")
	assert.NotEqual(t, base, MustFoldID("run-1", 1, "x86_64-gcc", "+", []string{"int:2", "int:1"}), "operand order")
}

func TestFoldIDDomainSeparation(t *testing.T) {
	canonical, err := MarshalCanonical(IRObject{
		"run_id":   IRString("r"),
		"seq":      IRInt(1),
		"target":   IRString("t"),
		"op":       IRString("~"),
		"operands": Strings([]string{"int:0"}),
	})
	require.NoError(t, err)

	plain := sha256.Sum256(canonical)
	id := MustFoldID("r", 1, "t", "~", []string{"int:0"})
	assert.NotEqual(t, hex.EncodeToString(plain[:]), id)
	assert.Equal(t, hashWithDomain(DomainFold, canonical), id)
}

func TestResultHash(t *testing.T) {
	warn := []Diagnostic{{Severity: "warning", Code: "SIGNED_OVERFLOW", Message: "integer overflow"}}

	h1, err := ResultHash("int:-2147483648", "", warn)
	require.NoError(t, err)
	h2, err := ResultHash("int:-2147483648", "", nil)
	require.NoError(t, err)
	h3, err := ResultHash("", "DIVISION_BY_ZERO", nil)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "diagnostics are part of the outcome")
	assert.NotEqual(t, h2, h3)
}

func TestSeal(t *testing.T) {
	r := FoldRecord{
		RunID:    "run-1",
		Seq:      3,
		Target:   "x86_64-gcc",
		Op:       "cast:uchar",
		Operands: []string{"int:300"},
		Result:   "uchar:44",
	}
	require.NoError(t, r.Seal())
	assert.Equal(t, MustFoldID("run-1", 3, "x86_64-gcc", "cast:uchar", []string{"int:300"}), r.ID)

	before := r.ResultHash
	r.Result = "uchar:45"
	require.NoError(t, r.Seal())
	assert.NotEqual(t, before, r.ResultHash)
}
