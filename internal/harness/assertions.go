package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/target"
)

// ExpectationError describes a step whose outcome differs from its expect
// clause.
type ExpectationError struct {
	Step     int    // 1-based step number
	Op       string // Operation of the step
	Field    string // Expect field that failed
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("step %d (%s): %s: expected %s, got %s", e.Step, e.Op, e.Field, e.Expected, e.Actual)
}

// CheckExpect compares an outcome with an expect clause and returns one
// error per mismatching field.
func CheckExpect(step int, op string, exp Expect, out Outcome) []error {
	var errs []error
	fail := func(field, expected, actual string) {
		errs = append(errs, &ExpectationError{Step: step, Op: op, Field: field, Expected: expected, Actual: actual})
	}

	if exp.Error != "" {
		if out.Error != exp.Error {
			fail("error", exp.Error, orNone(out.Error))
		}
		return errs
	}
	if out.Failed() {
		fail("error", "none", out.Err.Error())
		return errs
	}

	if exp.Value != "" && out.Result != exp.Value {
		fail("value", exp.Value, orNone(out.Result))
	}
	if exp.NoValue && out.Result != "" {
		fail("no_value", "no value", out.Result)
	}

	if exp.Decimal != "" {
		x, ok := out.Value.(fold.Float)
		if !ok {
			fail("decimal", exp.Decimal, "no floating value")
		} else {
			digits := exp.Digits
			if digits == 0 {
				digits = target.MaxDigits10(x.V.FWidth())
			}
			if got := x.V.ToDecimal(digits); got != exp.Decimal {
				fail("decimal", exp.Decimal, got)
			}
		}
	}

	codes := make([]string, len(out.Diagnostics))
	for i, d := range out.Diagnostics {
		codes[i] = d.Code
	}
	switch {
	case exp.Diagnostic == "" && len(codes) > 0:
		fail("diagnostic", "none", strings.Join(codes, ","))
	case exp.Diagnostic != "" && !slices.Contains(codes, exp.Diagnostic):
		fail("diagnostic", exp.Diagnostic, orNone(strings.Join(codes, ",")))
	}
	return errs
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
