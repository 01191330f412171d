package duckdb

import (
	"context"
	"fmt"

	"github.com/tunogya/ossa/pkg/report"
)

// EvalRepo persists per-symbol evaluation results so accuracy history
// survives across training runs.
type EvalRepo struct {
	client *Client
}

// NewEvalRepo creates a new evaluation repository.
func NewEvalRepo(client *Client) *EvalRepo {
	return &EvalRepo{client: client}
}

// InsertReport stores one row per symbol for a training run.
func (r *EvalRepo) InsertReport(ctx context.Context, runID string, rep *report.Report) error {
	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO evaluations (run_id, symbol, accuracy, correct, total)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (run_id, symbol) DO UPDATE SET
			accuracy = EXCLUDED.accuracy,
			correct = EXCLUDED.correct,
			total = EXCLUDED.total
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range rep.Symbols {
		if _, err := stmt.Exec(runID, s.Symbol, s.Overall, s.Correct, s.Total); err != nil {
			return fmt.Errorf("failed to insert evaluation: %w", err)
		}
	}

	return tx.Commit()
}

// SymbolHistory returns (runID, accuracy) pairs for a symbol, most
// recent first.
func (r *EvalRepo) SymbolHistory(ctx context.Context, symbol string, limit int) ([]EvalRow, error) {
	rows, err := r.client.Query(`
		SELECT run_id, accuracy, correct, total
		FROM evaluations
		WHERE symbol = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var out []EvalRow
	for rows.Next() {
		var row EvalRow
		row.Symbol = symbol
		if err := rows.Scan(&row.RunID, &row.Accuracy, &row.Correct, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EvalRow is one stored evaluation result.
type EvalRow struct {
	RunID    string
	Symbol   string
	Accuracy float64
	Correct  int
	Total    int
}
