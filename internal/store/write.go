package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/ccfold/internal/ir"
)

// CreateRun starts a new run against the named target and returns its id,
// a random UUID unless the store was opened WithRunIDGenerator.
// description is the target's JSON form, kept so the run can be replayed.
func (s *Store) CreateRun(ctx context.Context, target, description string) (string, error) {
	id := s.runIDs.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, target, description, version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?)
	`, id, target, description, ir.Version)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	slog.Debug("run created", "run_id", id, "target", target)
	return id, nil
}

// WriteFold inserts a sealed fold record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) WriteFold(ctx context.Context, rec ir.FoldRecord) error {
	return s.writeFold(ctx, s.db, rec)
}

// AppendFold assigns rec the next sequence number of its run, seals it and
// writes it. The sequence number is taken and used inside one transaction.
func (s *Store) AppendFold(ctx context.Context, rec *ir.FoldRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append fold: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM folds WHERE run_id = ?
	`, rec.RunID).Scan(&rec.Seq); err != nil {
		return fmt.Errorf("append fold: next seq: %w", err)
	}
	if err := rec.Seal(); err != nil {
		return fmt.Errorf("append fold: %w", err)
	}
	if err := s.writeFold(ctx, tx, *rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append fold: commit: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) writeFold(ctx context.Context, db execer, rec ir.FoldRecord) error {
	operands, err := marshalOperands(rec.Operands)
	if err != nil {
		return fmt.Errorf("write fold: %w", err)
	}
	diags, err := marshalDiagnostics(rec.Diagnostics)
	if err != nil {
		return fmt.Errorf("write fold: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO folds
		(id, run_id, seq, target, op, operands, result, error, diagnostics, result_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.RunID,
		rec.Seq,
		rec.Target,
		rec.Op,
		operands,
		rec.Result,
		rec.Error,
		diags,
		rec.ResultHash,
	)
	if err != nil {
		return fmt.Errorf("write fold: %w", err)
	}

	slog.Debug("fold written", "id", rec.ID, "run_id", rec.RunID, "seq", rec.Seq, "op", rec.Op)
	return nil
}
