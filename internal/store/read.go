package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ccfold/internal/ir"
)

const runColumns = `
	SELECT r.id, r.seq, r.target, r.description, r.version,
	       (SELECT COUNT(*) FROM folds f WHERE f.run_id = r.id)
	FROM runs r
`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	var run ir.Run
	err := s.db.QueryRowContext(ctx, runColumns+` WHERE r.id = ?`, id).Scan(
		&run.ID, &run.Seq, &run.Target, &run.Description, &run.Version, &run.FoldCount,
	)
	if err != nil {
		return ir.Run{}, err
	}
	return run, nil
}

// LatestRun returns the most recently created run.
// Returns sql.ErrNoRows if the log is empty.
func (s *Store) LatestRun(ctx context.Context) (ir.Run, error) {
	var run ir.Run
	err := s.db.QueryRowContext(ctx, runColumns+` ORDER BY r.seq DESC LIMIT 1`).Scan(
		&run.ID, &run.Seq, &run.Target, &run.Description, &run.Version, &run.FoldCount,
	)
	if err != nil {
		return ir.Run{}, err
	}
	return run, nil
}

// ListRuns returns every run in creation order.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, runColumns+` ORDER BY r.seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		var run ir.Run
		if err := rows.Scan(&run.ID, &run.Seq, &run.Target, &run.Description, &run.Version, &run.FoldCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadFolds returns every fold of a run.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if the run has no folds.
func (s *Store) ReadFolds(ctx context.Context, runID string) ([]ir.FoldRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, target, op, operands, result, error, diagnostics, result_hash
		FROM folds
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query folds: %w", err)
	}
	defer rows.Close()

	folds := []ir.FoldRecord{}
	for rows.Next() {
		rec, err := scanFold(rows)
		if err != nil {
			return nil, err
		}
		folds = append(folds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folds: %w", err)
	}
	return folds, nil
}

// ReadFold retrieves a single fold by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadFold(ctx context.Context, id string) (ir.FoldRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, target, op, operands, result, error, diagnostics, result_hash
		FROM folds
		WHERE id = ?
	`, id)
	if err != nil {
		return ir.FoldRecord{}, fmt.Errorf("query fold: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ir.FoldRecord{}, fmt.Errorf("query fold: %w", err)
		}
		return ir.FoldRecord{}, sql.ErrNoRows
	}
	return scanFold(rows)
}

func scanFold(rows *sql.Rows) (ir.FoldRecord, error) {
	var (
		rec      ir.FoldRecord
		operands string
		diags    string
	)
	if err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.Seq, &rec.Target, &rec.Op,
		&operands, &rec.Result, &rec.Error, &diags, &rec.ResultHash,
	); err != nil {
		return ir.FoldRecord{}, fmt.Errorf("scan fold: %w", err)
	}

	var err error
	if rec.Operands, err = unmarshalOperands(operands); err != nil {
		return ir.FoldRecord{}, err
	}
	if rec.Diagnostics, err = unmarshalDiagnostics(diags); err != nil {
		return ir.FoldRecord{}, err
	}
	return rec, nil
}
