package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrModelNotFound signals a load from a model slot that has never
// been saved. Recoverable: the caller falls back to training a new
// model.
var ErrModelNotFound = errors.New("model not found")

// ModelRepo is the persisted model slot: named, versionless, one
// artifact per name.
type ModelRepo struct {
	client *Client
}

// NewModelRepo creates a new model repository.
func NewModelRepo(client *Client) *ModelRepo {
	return &ModelRepo{client: client}
}

// Save stores a serialized model artifact under a name, replacing any
// previous artifact in that slot. kind names the artifact format so a
// loader can reject artifacts it does not understand.
func (r *ModelRepo) Save(ctx context.Context, name, kind string, artifact []byte) error {
	query := `
		INSERT INTO models (name, kind, artifact, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			kind = EXCLUDED.kind,
			artifact = EXCLUDED.artifact,
			updated_at = EXCLUDED.updated_at
	`
	if err := r.client.Exec(query, name, kind, artifact); err != nil {
		return fmt.Errorf("failed to save model %q: %w", name, err)
	}
	return nil
}

// Load retrieves the artifact stored under a name. A missing slot
// returns ErrModelNotFound, not a generic failure.
func (r *ModelRepo) Load(ctx context.Context, name string) (kind string, artifact []byte, err error) {
	row := r.client.QueryRow("SELECT kind, artifact FROM models WHERE name = ?", name)
	if err := row.Scan(&kind, &artifact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrModelNotFound
		}
		return "", nil, fmt.Errorf("failed to load model %q: %w", name, err)
	}
	return kind, artifact, nil
}

// Delete removes a model slot. Deleting a missing slot is not an
// error.
func (r *ModelRepo) Delete(ctx context.Context, name string) error {
	if err := r.client.Exec("DELETE FROM models WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete model %q: %w", name, err)
	}
	return nil
}
