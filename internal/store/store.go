// Package store persists custom build properties in PostgreSQL.
//
// Each recorded property is one (job, build, name, value) row. Timestamps
// are kept in their own column so they come back as dates and render with
// the table date layout; everything else is stored as text.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx; on a pgx.Tx, Begin opens a
// savepoint.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// ErrInvalidProperty is returned when a property is missing its job, build or name.
var ErrInvalidProperty = errors.New("invalid property")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS build_properties (
	id          UUID PRIMARY KEY,
	seq         BIGSERIAL NOT NULL,
	job         TEXT NOT NULL,
	build       TEXT NOT NULL,
	name        TEXT NOT NULL,
	value_text  TEXT,
	value_time  TIMESTAMPTZ,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE build_properties ADD COLUMN IF NOT EXISTS seq BIGSERIAL NOT NULL;
CREATE INDEX IF NOT EXISTS build_properties_job_seq_idx ON build_properties (job, recorded_at, seq);
`

// Property is a stored build property.
type Property struct {
	ID         uuid.UUID
	Job        string
	Build      string
	Name       string
	Value      table.Value
	RecordedAt time.Time
}

// NewProperty is the input to Record. Value may be nil, a time.Time or any
// printable value.
type NewProperty struct {
	Job   string
	Build string
	Name  string
	Value any
}

// Store reads and writes build properties.
type Store struct {
	db DBTX
}

// New creates a Store on top of a pool or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the properties table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func validate(p NewProperty) error {
	if p.Job == "" || p.Build == "" || p.Name == "" {
		return fmt.Errorf("record property (job %q, build %q, name %q): %w",
			p.Job, p.Build, p.Name, ErrInvalidProperty)
	}
	return nil
}

// Record inserts one property and returns its id.
func (s *Store) Record(ctx context.Context, p NewProperty) (uuid.UUID, error) {
	if err := validate(p); err != nil {
		return uuid.Nil, err
	}

	text, ts := encodeValue(p.Value)
	id := uuid.New()

	_, err := s.db.Exec(ctx,
		`INSERT INTO build_properties (id, job, build, name, value_text, value_time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pgtype.UUID{Bytes: id, Valid: true}, p.Job, p.Build, p.Name, text, ts,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record property %s/%s/%s: %w", p.Job, p.Build, p.Name, err)
	}
	return id, nil
}

// RecordBatch inserts props in one transaction. Either every property is
// stored or none is, so a failed batch can be retried without duplicates.
func (s *Store) RecordBatch(ctx context.Context, props []NewProperty) ([]uuid.UUID, error) {
	for _, p := range props {
		if err := validate(p); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txStore := New(tx)
	ids := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		id, err := txStore.Record(ctx, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit properties: %w", err)
	}
	return ids, nil
}

// ListProperties returns every property of a job in insertion order, so
// that replaying them keeps the most recent value per build and name.
// Rows recorded in the same transaction share recorded_at; seq breaks the tie.
func (s *Store) ListProperties(ctx context.Context, job string) ([]Property, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, job, build, name, value_text, value_time, recorded_at
		 FROM build_properties
		 WHERE job = $1
		 ORDER BY recorded_at, seq`,
		job,
	)
	if err != nil {
		return nil, fmt.Errorf("list properties for %s: %w", job, err)
	}
	defer rows.Close()

	var props []Property
	for rows.Next() {
		var (
			p          Property
			id         pgtype.UUID
			text       pgtype.Text
			ts         pgtype.Timestamptz
			recordedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &p.Job, &p.Build, &p.Name, &text, &ts, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		p.ID = uuid.UUID(id.Bytes)
		p.Value = decodeValue(text, ts)
		p.RecordedAt = recordedAt.Time
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list properties for %s: %w", job, err)
	}
	return props, nil
}

// ListJobs returns the distinct job names that have properties.
func (s *Store) ListJobs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT job FROM build_properties ORDER BY job`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
