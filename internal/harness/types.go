package harness

import "github.com/roach88/ccfold/internal/ir"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step matched its expect clause.
	Pass bool `json:"pass"`

	// Target is the name of the target the scenario ran against.
	Target string `json:"target"`

	// Folds holds the fold log of the run, read back from the store in
	// sequence order. Used for golden comparison.
	Folds []ir.FoldRecord `json:"folds"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Folds:  []ir.FoldRecord{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
