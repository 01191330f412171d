package duckdb

import "fmt"

// Schema contains table creation statements for all required tables

// CreateBarsTable creates the daily bars fact table.
const CreateBarsTable = `
CREATE TABLE IF NOT EXISTS bars (
    symbol VARCHAR NOT NULL,
    date VARCHAR NOT NULL,
    open DOUBLE,
    close DOUBLE,
    PRIMARY KEY (symbol, date)
);
`

// CreateModelsTable creates the model artifact slot table. One row per
// named slot; saving overwrites, loading a missing name is a distinct
// recoverable outcome.
const CreateModelsTable = `
CREATE TABLE IF NOT EXISTS models (
    name VARCHAR PRIMARY KEY,
    kind VARCHAR NOT NULL,
    artifact BLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// CreateEvaluationsTable creates the per-run evaluation results table.
const CreateEvaluationsTable = `
CREATE TABLE IF NOT EXISTS evaluations (
    run_id VARCHAR NOT NULL,
    symbol VARCHAR NOT NULL,
    accuracy DOUBLE,
    correct INTEGER,
    total INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (run_id, symbol)
);

CREATE INDEX IF NOT EXISTS idx_evaluations_symbol ON evaluations(symbol);
`

// InitializeSchema creates all required tables.
func InitializeSchema(c *Client) error {
	schemas := []string{
		CreateBarsTable,
		CreateModelsTable,
		CreateEvaluationsTable,
	}

	for _, schema := range schemas {
		if err := c.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with caution).
func DropAllTables(c *Client) error {
	tables := []string{"evaluations", "models", "bars"}
	for _, table := range tables {
		if err := c.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
