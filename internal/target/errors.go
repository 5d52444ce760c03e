package target

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes arithmetic failures.
type ErrorCode string

const (
	// ErrCodeSignedOverflow indicates an integer result outside the
	// representable range of its configuration.
	ErrCodeSignedOverflow ErrorCode = "SIGNED_OVERFLOW"

	// ErrCodeShiftOverflow indicates a negative or too large shift distance,
	// or a signed left shift whose result is not representable.
	ErrCodeShiftOverflow ErrorCode = "SHIFT_OVERFLOW"

	// ErrCodeDivisionByZero indicates an integer division or remainder by
	// zero.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeFloatToIntOverflow indicates a float whose truncated value does
	// not fit the integer target, or a NaN or Inf converted to an integer.
	ErrCodeFloatToIntOverflow ErrorCode = "FLOAT_TO_INT_OVERFLOW"
)

// ArithError is returned by every fallible Int and Float operation.
type ArithError struct {
	// Code identifies the failure.
	Code ErrorCode

	// Op names the operation that failed ("add", "shl", "convert", ...).
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ArithError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *ArithError by code, so errors.Is works against the
// exported sentinels regardless of Op and Message.
func (e *ArithError) Is(target error) bool {
	t, ok := target.(*ArithError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrSignedOverflow     = &ArithError{Code: ErrCodeSignedOverflow, Message: "integer overflow"}
	ErrShiftOverflow      = &ArithError{Code: ErrCodeShiftOverflow, Message: "shift overflow"}
	ErrDivisionByZero     = &ArithError{Code: ErrCodeDivisionByZero, Message: "division by zero"}
	ErrFloatToIntOverflow = &ArithError{Code: ErrCodeFloatToIntOverflow, Message: "float to integer overflow"}
)

func newSignedOverflow(op string) *ArithError {
	return &ArithError{Code: ErrCodeSignedOverflow, Op: op, Message: "result not representable"}
}

func newShiftOverflow(op, msg string) *ArithError {
	return &ArithError{Code: ErrCodeShiftOverflow, Op: op, Message: msg}
}

func newDivisionByZero(op string) *ArithError {
	return &ArithError{Code: ErrCodeDivisionByZero, Op: op, Message: "division by zero"}
}

func newFloatToIntOverflow(msg string) *ArithError {
	return &ArithError{Code: ErrCodeFloatToIntOverflow, Op: "to_int", Message: msg}
}

// CodeOf returns the code of the first *ArithError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var ae *ArithError
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

// IsOverflow returns true for signed, shift and float-to-int overflow.
// Uses errors.As to handle wrapped errors.
func IsOverflow(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	switch code {
	case ErrCodeSignedOverflow, ErrCodeShiftOverflow, ErrCodeFloatToIntOverflow:
		return true
	}
	return false
}

// IsDivisionByZero returns true if the error is a division by zero.
func IsDivisionByZero(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeDivisionByZero
}
