package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/ccfold/internal/ir"
)

// marshalOperands converts operands to canonical JSON TEXT for storage.
func marshalOperands(operands []string) (string, error) {
	data, err := ir.MarshalCanonical(ir.Strings(operands))
	if err != nil {
		return "", fmt.Errorf("marshal operands: %w", err)
	}
	return string(data), nil
}

// marshalDiagnostics converts diagnostics to canonical JSON TEXT. Order is
// preserved; each diagnostic becomes an object with sorted keys.
func marshalDiagnostics(diags []ir.Diagnostic) (string, error) {
	arr := make(ir.IRArray, len(diags))
	for i, d := range diags {
		arr[i] = ir.IRObject{
			"severity": ir.IRString(d.Severity),
			"code":     ir.IRString(d.Code),
			"message":  ir.IRString(d.Message),
		}
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(data), nil
}

func unmarshalOperands(data string) ([]string, error) {
	operands := []string{}
	if err := json.Unmarshal([]byte(data), &operands); err != nil {
		return nil, fmt.Errorf("unmarshal operands: %w", err)
	}
	return operands, nil
}

// unmarshalDiagnostics returns nil for an empty list so records read back
// compare equal to records built without diagnostics.
func unmarshalDiagnostics(data string) ([]ir.Diagnostic, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var diags []ir.Diagnostic
	if err := json.Unmarshal([]byte(data), &diags); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return diags, nil
}
