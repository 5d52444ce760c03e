package cli

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/ir"
	"github.com/roach88/ccfold/internal/store"
)

// loadTarget resolves the --target flag.
func loadTarget(opts *RootOptions) (*arch.Target, error) {
	t, err := arch.Resolve(opts.Target)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load target", err)
	}
	return t, nil
}

// openLog opens the fold log at path. In JSON mode a failure is also
// reported on f.
func openLog(f *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		if f.Format == "json" {
			_ = f.Error(ErrCodeDatabase, err.Error(), map[string]string{"path": path})
		}
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// describeTarget returns the JSON form of t stored with a run.
func describeTarget(t *arch.Target) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode target %s: %w", t.Name, err)
	}
	return string(data), nil
}

// targetFromRun rebuilds the target a run was recorded against from its
// stored description, falling back to the built-in of the same name for
// runs without one.
func targetFromRun(run ir.Run) (*arch.Target, error) {
	if run.Description == "" || run.Description == "{}" {
		t, ok := arch.Lookup(run.Target)
		if !ok {
			return nil, fmt.Errorf("run %s: no description and no built-in target %q", run.ID, run.Target)
		}
		return t, nil
	}

	var t arch.Target
	if err := json.Unmarshal([]byte(run.Description), &t); err != nil {
		return nil, fmt.Errorf("run %s: decode target description: %w", run.ID, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	if t.Name != run.Target {
		return nil, fmt.Errorf("run %s: description names target %q, run names %q", run.ID, t.Name, run.Target)
	}
	return &t, nil
}
