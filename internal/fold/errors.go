package fold

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes fatal folding errors.
type ErrorCode string

const (
	// ErrCodeDivisionByZero indicates integer division or remainder by a
	// constant zero.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeInvalidOperands indicates an operator applied to operands it
	// does not accept, such as % on floats.
	ErrCodeInvalidOperands ErrorCode = "INVALID_OPERANDS"

	// ErrCodeNegativeShift indicates a shift by a negative constant.
	ErrCodeNegativeShift ErrorCode = "NEGATIVE_SHIFT"

	// ErrCodeEnumOverflow indicates enumerator values no integer type can
	// hold.
	ErrCodeEnumOverflow ErrorCode = "ENUM_OVERFLOW"

	// ErrCodeBadOperand indicates operand notation that cannot be parsed.
	ErrCodeBadOperand ErrorCode = "BAD_OPERAND"
)

// FoldError is a fatal error: the expression is not a valid constant
// expression.
type FoldError struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

func (e *FoldError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s (op=%s)", msg, e.Op)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *FoldError) Unwrap() error { return e.Err }

// IsFoldError reports whether err is a *FoldError with the given code.
// Uses errors.As to handle wrapped errors.
func IsFoldError(err error, code ErrorCode) bool {
	var fe *FoldError
	return errors.As(err, &fe) && fe.Code == code
}
