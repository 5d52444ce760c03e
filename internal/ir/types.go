package ir

// Diagnostic is a warning or fatal message attached to a fold.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// FoldRecord is one evaluated operation in a run's fold log.
//
// Op is a C operator ("+", "<<", ...), "cast:<kind>" for a cast, or
// "decimal:<digits>" for a decimal rendering. Operands and Result use
// operand notation ("int:-1", "double:1.5000000000000000e+00"); Result is
// empty when the fold failed fatally or produced no constant, and Error then
// holds the fatal error code if any.
type FoldRecord struct {
	ID          string       `json:"id"`
	RunID       string       `json:"run_id"`
	Seq         int64        `json:"seq"`
	Target      string       `json:"target"`
	Op          string       `json:"op"`
	Operands    []string     `json:"operands"`
	Result      string       `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	ResultHash  string       `json:"result_hash"`
}

// Run groups the folds evaluated against one target. Description holds
// the target's JSON form so a run recorded against a description file can be
// replayed without it.
type Run struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Target      string `json:"target"`
	Description string `json:"description"`
	Version     string `json:"version"`
	FoldCount   int64  `json:"fold_count"`
}
