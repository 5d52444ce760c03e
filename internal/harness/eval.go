package harness

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/ir"
	"github.com/roach88/ccfold/internal/target"
)

// Operation prefixes understood by Evaluate besides the C operators.
const (
	OpCastPrefix    = "cast:"
	OpDecimalPrefix = "decimal:"
	OpEnum          = "enum"
)

// ErrCodeInternal marks an error that did not come from the fold layer.
const ErrCodeInternal = "INTERNAL"

// Outcome is the result of evaluating one operation.
type Outcome struct {
	// Value is the folded constant, nil when there is none.
	Value fold.Value

	// Result is the printed outcome: the value in operand notation, the
	// digit string of a decimal op or the kind chosen by an enum op.
	Result string

	// Error is the code of a fatal error, Err the error itself.
	Error string
	Err   error

	Diagnostics []ir.Diagnostic
}

// Failed reports whether the operation ended in a fatal error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Record builds the unsealed fold record for this outcome.
func (o Outcome) Record(runID, targetName, op string, operands []string) ir.FoldRecord {
	return ir.FoldRecord{
		RunID:       runID,
		Target:      targetName,
		Op:          op,
		Operands:    slices.Clone(operands),
		Result:      o.Result,
		Error:       o.Error,
		Diagnostics: o.Diagnostics,
	}
}

// Evaluate folds op over operands written in operand notation.
//
// op is a C operator (binary with two operands, unary with one),
// "cast:<kind>", "decimal:<digits>" applied to a float, or "enum" applied
// to the enumerator values.
func Evaluate(f *fold.Folder, op string, operands []string) Outcome {
	values := make([]fold.Value, len(operands))
	for i, s := range operands {
		v, err := f.ParseOperand(s)
		if err != nil {
			return failure(err)
		}
		values[i] = v
	}

	switch {
	case strings.HasPrefix(op, OpCastPrefix):
		return evalCast(f, op, values)
	case strings.HasPrefix(op, OpDecimalPrefix):
		return evalDecimal(op, values)
	case op == OpEnum:
		return evalEnum(f, values)
	}

	var (
		res fold.Result
		err error
	)
	o := fold.Op(op)
	switch {
	case len(values) == 2 && slices.Contains(fold.BinaryOps, o):
		res, err = f.Binary(o, values[0], values[1])
	case len(values) == 1 && slices.Contains(fold.UnaryOps, o):
		res, err = f.Unary(o, values[0])
	default:
		err = invalidOp(op, "unknown operator with %d operand(s)", len(values))
	}
	if err != nil {
		return failure(err)
	}
	return success(res)
}

func evalCast(f *fold.Folder, op string, values []fold.Value) Outcome {
	if len(values) != 1 {
		return failure(invalidOp(op, "cast takes one operand, got %d", len(values)))
	}
	name := strings.TrimPrefix(op, OpCastPrefix)
	k, ok := fold.ParseKind(name)
	if !ok {
		return failure(invalidOp(op, "unknown type %q", name))
	}
	res, err := f.Cast(values[0], k)
	if err != nil {
		return failure(err)
	}
	return success(res)
}

func evalDecimal(op string, values []fold.Value) Outcome {
	n, err := strconv.ParseUint(strings.TrimPrefix(op, OpDecimalPrefix), 10, 32)
	if err != nil || n == 0 {
		return failure(invalidOp(op, "digit count must be a positive integer"))
	}
	if len(values) != 1 {
		return failure(invalidOp(op, "decimal takes one operand, got %d", len(values)))
	}
	x, ok := values[0].(fold.Float)
	if !ok {
		return failure(invalidOp(op, "operand of type %s is not floating", values[0].Kind()))
	}
	return Outcome{Value: x, Result: x.V.ToDecimal(uint(n))}
}

func evalEnum(f *fold.Folder, values []fold.Value) Outcome {
	if len(values) == 0 {
		return failure(invalidOp(OpEnum, "no enumerator values"))
	}
	ints := make([]target.Int, len(values))
	for i, v := range values {
		x, ok := v.(fold.Int)
		if !ok {
			return failure(invalidOp(OpEnum, "enumerator value of type %s", v.Kind()))
		}
		ints[i] = x.V
	}
	k, err := f.EnumKind(ints)
	if err != nil {
		return failure(err)
	}
	return Outcome{Result: k.String()}
}

func invalidOp(op, format string, args ...any) error {
	return &fold.FoldError{Code: fold.ErrCodeInvalidOperands, Op: op, Message: fmt.Sprintf(format, args...)}
}

func success(res fold.Result) Outcome {
	out := Outcome{Value: res.Value}
	if res.Value != nil {
		out.Result = fold.FormatValue(res.Value)
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, ir.Diagnostic{
			Severity: string(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
		})
	}
	return out
}

func failure(err error) Outcome {
	code := ErrCodeInternal
	var fe *fold.FoldError
	if errors.As(err, &fe) {
		code = string(fe.Code)
	}
	return Outcome{Error: code, Err: err}
}
