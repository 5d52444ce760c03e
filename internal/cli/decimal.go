package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/harness"
	"github.com/roach88/ccfold/internal/target"
)

// DecimalOptions holds flags for the decimal command.
type DecimalOptions struct {
	*RootOptions
	Digits uint // 0 means max_digits10 of the operand's format
}

// DecimalResult is the output of the decimal command.
type DecimalResult struct {
	Operand string `json:"operand"`
	Digits  uint   `json:"digits"`
	Decimal string `json:"decimal"`
}

func (r DecimalResult) String() string { return r.Decimal }

// NewDecimalCommand creates the decimal command.
func NewDecimalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecimalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decimal <operand>",
		Short: "Print a floating constant in decimal",
		Long: `Print a floating constant with a given number of significant
digits, correctly rounded (ties to even), as d.ddd...e+XX.

Without --digits the operand's max_digits10 is used: enough digits to
read back the identical value.

Examples:
  ccfold decimal double:0.1
  ccfold decimal double:0.1 --digits 25
  ccfold decimal ldouble:0x1p-16445`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecimal(opts, args[0], cmd)
		},
	}

	cmd.Flags().UintVar(&opts.Digits, "digits", 0, "significant digits (default max_digits10 of the format)")

	return cmd
}

func runDecimal(opts *DecimalOptions, operand string, cmd *cobra.Command) error {
	t, err := loadTarget(opts.RootOptions)
	if err != nil {
		return err
	}
	f := fold.New(t)

	digits := opts.Digits
	if digits == 0 {
		v, err := f.ParseOperand(operand)
		if err != nil {
			return WrapExitError(ExitFailure, "invalid operand", err)
		}
		x, ok := v.(fold.Float)
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("operand of type %s is not floating", v.Kind()))
		}
		digits = target.MaxDigits10(x.V.FWidth())
	}

	out := harness.Evaluate(f, harness.OpDecimalPrefix+strconv.FormatUint(uint64(digits), 10), []string{operand})
	if out.Failed() {
		return WrapExitError(ExitFailure, "decimal failed", out.Err)
	}

	return newFormatter(cmd, opts.RootOptions).Success(DecimalResult{
		Operand: operand,
		Digits:  digits,
		Decimal: out.Result,
	})
}
