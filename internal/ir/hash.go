package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for a future algorithm change.
const (
	DomainFold   = "ccfold/fold/v1"
	DomainResult = "ccfold/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null separator
// keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FoldID computes the identity of a fold from its inputs: where it sits in
// a run and what was evaluated. The outcome is excluded so a replay can
// recompute the same ID and compare results under it.
func FoldID(runID string, seq int64, target, op string, operands []string) (string, error) {
	obj := IRObject{
		"run_id":   IRString(runID),
		"seq":      IRInt(seq),
		"target":   IRString(target),
		"op":       IRString(op),
		"operands": Strings(operands),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("FoldID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFold, canonical), nil
}

// ResultHash computes a digest of a fold's outcome: the value, the fatal
// error code and every diagnostic in order.
func ResultHash(result, errCode string, diags []Diagnostic) (string, error) {
	arr := make(IRArray, len(diags))
	for i, d := range diags {
		arr[i] = IRObject{
			"severity": IRString(d.Severity),
			"code":     IRString(d.Code),
			"message":  IRString(d.Message),
		}
	}
	obj := IRObject{
		"result":      IRString(result),
		"error":       IRString(errCode),
		"diagnostics": arr,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ResultHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// Seal fills in r.ID and r.ResultHash from the record's other fields.
func (r *FoldRecord) Seal() error {
	id, err := FoldID(r.RunID, r.Seq, r.Target, r.Op, r.Operands)
	if err != nil {
		return err
	}
	h, err := ResultHash(r.Result, r.Error, r.Diagnostics)
	if err != nil {
		return err
	}
	r.ID, r.ResultHash = id, h
	return nil
}

// MustFoldID is like FoldID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFoldID(runID string, seq int64, target, op string, operands []string) string {
	id, err := FoldID(runID, seq, target, op, operands)
	if err != nil {
		panic(err)
	}
	return id
}
