package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tunogya/ossa/pkg/model"
)

// BarRepo handles daily bar persistence.
type BarRepo struct {
	client *Client
}

// NewBarRepo creates a new bar repository.
func NewBarRepo(client *Client) *BarRepo {
	return &BarRepo{client: client}
}

// Insert inserts a single bar, overwriting any existing (symbol, date)
// row.
func (r *BarRepo) Insert(ctx context.Context, b *model.Bar) error {
	query := `
		INSERT INTO bars (symbol, date, open, close)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			close = EXCLUDED.close
	`
	return r.client.Exec(query, b.Symbol, b.Date, nullable(b.Open), nullable(b.Close))
}

// InsertBatch inserts multiple bars in a transaction.
func (r *BarRepo) InsertBatch(ctx context.Context, bars []model.Bar) error {
	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bars (symbol, date, open, close)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			close = EXCLUDED.close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range bars {
		if _, err := stmt.Exec(bars[i].Symbol, bars[i].Date, nullable(bars[i].Open), nullable(bars[i].Close)); err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	return tx.Commit()
}

// GetAll retrieves every bar ordered by date then symbol, the order
// the pivot stage expects.
func (r *BarRepo) GetAll(ctx context.Context) ([]model.Bar, error) {
	query := `
		SELECT symbol, date, open, close
		FROM bars
		ORDER BY date ASC, symbol ASC
	`
	rows, err := r.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetBySymbol retrieves all bars for one symbol in date order.
func (r *BarRepo) GetBySymbol(ctx context.Context, symbol string) ([]model.Bar, error) {
	query := `
		SELECT symbol, date, open, close
		FROM bars
		WHERE symbol = ?
		ORDER BY date ASC
	`
	rows, err := r.client.Query(query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetLatest retrieves the most recent N bars for a symbol in
// chronological order.
func (r *BarRepo) GetLatest(ctx context.Context, symbol string, limit int) ([]model.Bar, error) {
	query := `
		SELECT symbol, date, open, close
		FROM bars
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?
	`
	rows, err := r.client.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	bars, err := scanBars(rows)
	if err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// Count returns the total number of stored bars.
func (r *BarRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.client.QueryRow("SELECT COUNT(*) FROM bars").Scan(&count)
	return count, err
}

func scanBars(rows *sql.Rows) ([]model.Bar, error) {
	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var open, close sql.NullFloat64

		if err := rows.Scan(&b.Symbol, &b.Date, &open, &close); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}

		b.Open = model.Missing()
		b.Close = model.Missing()
		if open.Valid {
			b.Open = open.Float64
		}
		if close.Valid {
			b.Close = close.Float64
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// nullable maps the missing sentinel to SQL NULL so NaN never reaches
// the storage layer.
func nullable(v float64) interface{} {
	if model.IsMissing(v) {
		return nil
	}
	return v
}
