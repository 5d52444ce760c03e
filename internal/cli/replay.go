package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/harness"
	"github.com/roach88/ccfold/internal/ir"
	"github.com/roach88/ccfold/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
	All      bool   // replay every run
}

// ReplayMismatch describes a fold whose replayed outcome differs from the
// recorded one.
type ReplayMismatch struct {
	Seq      int64    `json:"seq"`
	Op       string   `json:"op"`
	Operands []string `json:"operands"`
	Recorded string   `json:"recorded"`
	Replayed string   `json:"replayed"`
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID      string           `json:"run_id"`
	Target     string           `json:"target"`
	Folds      int              `json:"folds"`
	Mismatches []ReplayMismatch `json:"mismatches,omitempty"`
	Match      bool             `json:"match"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs      []ReplayRunResult `json:"runs"`
	TotalRuns int               `json:"total_runs"`
	AllMatch  bool              `json:"all_match"`
}

func (r ReplayResult) String() string {
	var sb strings.Builder
	for _, run := range r.Runs {
		status := "✓"
		if !run.Match {
			status = "✗"
		}
		fmt.Fprintf(&sb, "%s run %s (%s): %d folds", status, run.RunID, run.Target, run.Folds)
		for _, m := range run.Mismatches {
			fmt.Fprintf(&sb, "\n  seq %d: %s %s\n    recorded: %s\n    replayed: %s",
				m.Seq, m.Op, strings.Join(m.Operands, " "), m.Recorded, m.Replayed)
		}
		sb.WriteByte('\n')
	}
	if r.AllMatch {
		fmt.Fprintf(&sb, "\nAll %d run(s) replayed identically", r.TotalRuns)
	} else {
		fmt.Fprintf(&sb, "\nReplay differs from the recorded log")
	}
	return sb.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate a fold log and compare results",
		Long: `Re-evaluate every fold of a run against the target description stored
with the run, and compare each outcome (value, error and diagnostics)
with the recorded one.

Without --run the latest run is replayed; --all replays every run.

Exit codes:
  0 - Every fold replayed identically
  1 - At least one fold produced a different outcome
  2 - Command error (database not found, unknown run, etc.)

Examples:
  ccfold replay --db ./folds.db
  ccfold replay --db ./folds.db --run 3f0c...
  ccfold replay --db ./folds.db --all --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay this run only")
	cmd.Flags().BoolVar(&opts.All, "all", false, "replay every run")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	if opts.RunID != "" && opts.All {
		return NewExitError(ExitCommandError, "--run and --all are mutually exclusive")
	}
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

	runs, err := selectRuns(ctx, st, opts)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return f.Success(ReplayResult{Runs: []ReplayRunResult{}, AllMatch: true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	result := ReplayResult{
		Runs:      make([]ReplayRunResult, 0, len(runs)),
		TotalRuns: len(runs),
		AllMatch:  true,
	}
	for _, run := range runs {
		runResult, err := replayRun(ctx, st, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		f.VerboseLog("replayed run %s: %d folds, %d mismatches", run.ID, runResult.Folds, len(runResult.Mismatches))
		result.Runs = append(result.Runs, runResult)
		if !runResult.Match {
			result.AllMatch = false
		}
	}

	if !result.AllMatch {
		msg := "replayed outcomes differ from the recorded log"
		if opts.Format == "json" {
			if err := f.Failure(result, ErrCodeReplayMismatch, msg); err != nil {
				return err
			}
		} else if err := f.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(result)
}

func selectRuns(ctx context.Context, st *store.Store, opts *ReplayOptions) ([]ir.Run, error) {
	switch {
	case opts.All:
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return runs, nil
	case opts.RunID != "":
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", opts.RunID), err)
		}
		return []ir.Run{run}, nil
	}

	run, err := st.LatestRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read latest run", err)
	}
	return []ir.Run{run}, nil
}

// replayRun re-evaluates each fold of run. A fold matches when the
// replayed record has the same id and result hash as the stored one.
func replayRun(ctx context.Context, st *store.Store, run ir.Run) (ReplayRunResult, error) {
	t, err := targetFromRun(run)
	if err != nil {
		return ReplayRunResult{}, err
	}
	folds, err := st.ReadFolds(ctx, run.ID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	folder := fold.New(t)
	res := ReplayRunResult{RunID: run.ID, Target: run.Target, Folds: len(folds), Match: true}
	for _, rec := range folds {
		out := harness.Evaluate(folder, rec.Op, rec.Operands)
		replayed := out.Record(rec.RunID, rec.Target, rec.Op, rec.Operands)
		replayed.Seq = rec.Seq
		if err := replayed.Seal(); err != nil {
			return ReplayRunResult{}, fmt.Errorf("seq %d: %w", rec.Seq, err)
		}

		if replayed.ID == rec.ID && replayed.ResultHash == rec.ResultHash {
			continue
		}
		slog.Warn("replay mismatch", "run_id", run.ID, "seq", rec.Seq, "op", rec.Op)
		res.Match = false
		res.Mismatches = append(res.Mismatches, ReplayMismatch{
			Seq:      rec.Seq,
			Op:       rec.Op,
			Operands: rec.Operands,
			Recorded: outcomeLine(rec),
			Replayed: outcomeLine(replayed),
		})
	}
	return res, nil
}

// outcomeLine is formatFold on one line.
func outcomeLine(rec ir.FoldRecord) string {
	return strings.ReplaceAll(formatFold(rec), "\n  ", "; ")
}
