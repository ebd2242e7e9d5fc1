// internal/adapter/storage/run_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"socialpulse/internal/domain/pulse"
)

// Schema creates the runs archive
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		view         TEXT NOT NULL,
		source       TEXT NOT NULL DEFAULT '',
		channel      TEXT NOT NULL DEFAULT '',
		params       JSONB NOT NULL DEFAULT '{}',
		result       JSONB,
		item_count   INTEGER NOT NULL DEFAULT 0,
		duration_ms  BIGINT NOT NULL DEFAULT 0,
		completed_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_completed_at_idx ON runs (completed_at DESC);
`

// querier is the part of *pgxpool.Pool the store uses
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// RunRecord is an archived run as it is read back for inspection
type RunRecord struct {
	ID          string          `json:"id"`
	View        pulse.View      `json:"view"`
	Source      string          `json:"source"`
	Channel     string          `json:"channel"`
	Params      json.RawMessage `json:"params"`
	Result      json.RawMessage `json:"result,omitempty"`
	ItemCount   int             `json:"item_count"`
	DurationMS  int64           `json:"duration_ms"`
	CompletedAt time.Time       `json:"completed_at"`
}

// RunStore archives pipeline runs in Postgres
type RunStore struct {
	db querier
}

// NewRunStore creates a new run store
func NewRunStore(db *pgxpool.Pool) *RunStore {
	return &RunStore{
		db: db,
	}
}

// EnsureSchema creates the runs table if it does not exist
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("error creating runs schema: %w", err)
	}
	return nil
}

// SaveRun saves a run to storage
func (s *RunStore) SaveRun(ctx context.Context, run pulse.Run) error {
	query := `
		INSERT INTO runs (
			id, view, source, channel, params, result,
			item_count, duration_ms, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9
		)
		ON CONFLICT (id) DO NOTHING
	`

	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now().UTC()
	}

	params := run.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("error marshaling params: %w", err)
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("error marshaling result: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		run.ID,
		string(run.View),
		run.Source,
		run.Channel,
		paramsJSON,
		resultJSON,
		run.ItemCount,
		run.Duration.Milliseconds(),
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetRun retrieves an archived run by ID
func (s *RunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `
		SELECT
			id, view, source, channel, params, result,
			item_count, duration_ms, completed_at
		FROM runs
		WHERE id = $1
	`

	var r RunRecord
	var view string
	var params, result []byte

	err := s.db.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&view,
		&r.Source,
		&r.Channel,
		&params,
		&result,
		&r.ItemCount,
		&r.DurationMS,
		&r.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, pulse.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying run: %w", err)
	}

	r.View = pulse.View(view)
	r.Params = params
	if len(result) > 0 {
		r.Result = result
	}

	return &r, nil
}
