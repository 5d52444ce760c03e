package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ccfold/internal/ir"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show the folds of this run
}

// RunList is the log command's output without --run.
type RunList []ir.Run

func (l RunList) String() string {
	if len(l) == 0 {
		return "No runs found in database."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s  %-36s  %-12s  %s", "SEQ", "RUN", "TARGET", "FOLDS")
	for _, r := range l {
		fmt.Fprintf(&sb, "\n%4d  %-36s  %-12s  %d", r.Seq, r.ID, r.Target, r.FoldCount)
	}
	return sb.String()
}

// FoldList is the log command's output with --run.
type FoldList struct {
	Run   ir.Run          `json:"run"`
	Folds []ir.FoldRecord `json:"folds"`
}

func (l FoldList) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s (%s, %d folds)", l.Run.ID, l.Run.Target, len(l.Folds))
	for _, rec := range l.Folds {
		fmt.Fprintf(&sb, "\n[%d] %s %s => ", rec.Seq, rec.Op, strings.Join(rec.Operands, " "))
		sb.WriteString(strings.ReplaceAll(formatFold(rec), "\n  ", "\n      "))
	}
	return sb.String()
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List runs and folds in a fold log",
		Long: `List the runs recorded in a fold log, oldest first, or with --run
the folds of one run in sequence order.

Examples:
  ccfold log --db ./folds.db
  ccfold log --db ./folds.db --run 3f0c...
  ccfold log --db ./folds.db --run 3f0c... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the folds of this run")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	f := newFormatter(cmd, opts.RootOptions)
	st, err := openLog(f, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return f.Success(RunList(runs))
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", opts.RunID), err)
	}
	folds, err := st.ReadFolds(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read folds", err)
	}
	return f.Success(FoldList{Run: run, Folds: folds})
}
