package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ccfold/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run against x86_64-gcc.
func createTestRun(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.CreateRun(context.Background(), "x86_64-gcc", `{"name":"x86_64-gcc"}`)
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	return id
}

// createTestFold builds a sealed fold record.
func createTestFold(t *testing.T, runID string, seq int64, op, result string, operands ...string) ir.FoldRecord {
	t.Helper()
	rec := ir.FoldRecord{
		RunID:    runID,
		Seq:      seq,
		Target:   "x86_64-gcc",
		Op:       op,
		Operands: operands,
		Result:   result,
	}
	if err := rec.Seal(); err != nil {
		t.Fatalf("Seal() failed: %v", err)
	}
	return rec
}
