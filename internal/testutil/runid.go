package testutil

import "fmt"

// FixedRunID returns the same run id from every Generate call. It satisfies
// store.RunIDGenerator.
type FixedRunID struct {
	id string
}

// NewFixedRunID returns a generator for id, or "test-run-default" when id
// is empty.
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunID) Generate() string { return g.id }

// CountingRunIDs returns prefix-1, prefix-2, ... for runs created in a row.
type CountingRunIDs struct {
	prefix string
	seq    Sequence
}

// NewCountingRunIDs returns a generator producing ids under prefix.
func NewCountingRunIDs(prefix string) *CountingRunIDs {
	return &CountingRunIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *CountingRunIDs) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.seq.Next())
}
