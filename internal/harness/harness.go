package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/fold"
	"github.com/roach88/ccfold/internal/store"
	"github.com/roach88/ccfold/internal/testutil"
)

// Harness is the test execution engine.
// It evaluates scenario steps with a fixed run id and a deterministic
// sequence so the fold log is identical on every run.
type Harness struct {
	store  *store.Store
	folder *fold.Folder
	seq    *testutil.Sequence
	runID  string
	target string
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Resolve the target and open the store
// 2. Create the run
// 3. Evaluate each step, write its fold and check its expect clause
// 4. Read the fold log back into the result
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	t, err := arch.Resolve(scenario.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	desc, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode target: %w", err)
	}

	st, err := store.Open(":memory:", store.WithRunIDGenerator(testutil.NewFixedRunID(scenario.RunID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	runID, err := st.CreateRun(ctx, t.Name, string(desc))
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:  st,
		folder: fold.New(t),
		seq:    testutil.NewSequence(),
		runID:  runID,
		target: t.Name,
		logger: logger,
	}

	result := NewResult()
	result.Target = t.Name
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	folds, err := st.ReadFolds(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read fold log: %w", err)
	}
	result.Folds = folds

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"target", t.Name,
		"steps", len(scenario.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

// executeSteps evaluates every step in order. Each step takes exactly one
// sequence number, used for both the record field and its id.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		out := Evaluate(h.folder, step.Op, step.Operands)

		rec := out.Record(h.runID, h.target, step.Op, step.Operands)
		rec.Seq = h.seq.Next()
		if err := rec.Seal(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := h.store.WriteFold(ctx, rec); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.Expect != nil {
			for _, err := range CheckExpect(i+1, step.Op, *step.Expect, out) {
				result.AddError(err.Error())
			}
		}

		h.logger.Info("step completed",
			"step", i+1,
			"op", step.Op,
			"result", rec.Result,
			"error", rec.Error,
			"fold_id", rec.ID,
		)
	}
	return nil
}
