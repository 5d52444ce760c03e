package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/harness"
	"github.com/roach88/ccfold/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database string // optional - record the fold in this log
	RunID    string // optional - append to an existing run
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <op> <operand>...",
		Short: "Fold one constant expression",
		Long: `Fold one operation for the selected target and print the result
with any diagnostics.

<op> is a C operator (+ - * / % << >> & | ^ == != < > <= >= && || ~ !),
cast:<kind>, decimal:<digits> or enum. Operands are written <kind>:<number>,
for example int:-1, ullong:0xffff, double:0.1, float:0x1p-3 or ldouble:nan.
+ and - are unary with one operand and binary with two.

With --db the fold is recorded in the fold log: in a new run, or appended
to the run given with --run.

Exit codes:
  0 - The expression folded (possibly with warnings)
  1 - The expression is not a valid constant expression
  2 - Command error (bad target, database error, etc.)

Examples:
  ccfold eval + int:2147483647 int:1
  ccfold eval cast:uchar int:300
  ccfold eval / double:1 double:0 --target i386-gcc
  ccfold eval '<<' int:1 int:31 --db folds.db`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the fold in this SQLite fold log")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "append to this run instead of starting a new one (requires --db)")

	return cmd
}

func runEval(opts *EvalOptions, op string, operands []string, cmd *cobra.Command) error {
	if opts.RunID != "" && opts.Database == "" {
		return NewExitError(ExitCommandError, "--run requires --db")
	}

	t, err := loadTarget(opts.RootOptions)
	if err != nil {
		return err
	}

	out := harness.Evaluate(fold.New(t), op, operands)
	rec := out.Record("", t.Name, op, operands)

	f := newFormatter(cmd, opts.RootOptions)
	if opts.Database != "" {
		if err := recordFold(cmd.Context(), f, opts, t, &rec); err != nil {
			return err
		}
	}

	if out.Failed() {
		if opts.Format == "json" {
			if err := f.Failure(rec, out.Error, out.Err.Error()); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), formatFold(rec))
		}
		return WrapExitError(ExitFailure, "fold failed", out.Err)
	}

	if opts.Format == "json" {
		return f.Success(rec)
	}
	return f.Success(formatFold(rec))
}

// recordFold appends rec to the log, starting a run unless one was named.
func recordFold(ctx context.Context, f *OutputFormatter, opts *EvalOptions, t *arch.Target, rec *ir.FoldRecord) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openLog(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runID := opts.RunID
	if runID != "" {
		run, err := st.ReadRun(ctx, runID)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", runID), err)
		}
		if run.Target != t.Name {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("run %s was recorded for target %s, not %s", runID, run.Target, t.Name))
		}
	} else {
		desc, err := describeTarget(t)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to describe target", err)
		}
		runID, err = st.CreateRun(ctx, t.Name, desc)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create run", err)
		}
	}

	rec.RunID = runID
	if err := st.AppendFold(ctx, rec); err != nil {
		return WrapExitError(ExitCommandError, "failed to record fold", err)
	}
	slog.Info("fold recorded", "run_id", rec.RunID, "seq", rec.Seq, "id", rec.ID)
	return nil
}
