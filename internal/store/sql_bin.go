package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects placeholder style for SQLBin queries.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const binsSchema = `
CREATE TABLE IF NOT EXISTS bins (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLBin keeps each collection as one row of the bins table.
type SQLBin struct {
	DB      *sql.DB
	Dialect Dialect
	Name    string
}

func NewSQLBin(db *sql.DB, dialect Dialect, name string) *SQLBin {
	return &SQLBin{DB: db, Dialect: dialect, Name: name}
}

// EnsureBinsTable creates the bins table when it is missing.
func EnsureBinsTable(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, binsSchema); err != nil {
		return fmt.Errorf("create bins table: %w", err)
	}
	return nil
}

func (b *SQLBin) selectQuery() string {
	if b.Dialect == DialectPostgres {
		return `SELECT payload FROM bins WHERE name = $1`
	}
	return `SELECT payload FROM bins WHERE name = ?`
}

func (b *SQLBin) upsertQuery() string {
	if b.Dialect == DialectPostgres {
		return `INSERT INTO bins (name, payload, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	}
	return `INSERT INTO bins (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
}

func (b *SQLBin) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := b.DB.QueryRowContext(ctx, b.selectQuery(), b.Name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (b *SQLBin) Save(ctx context.Context, data []byte) error {
	_, err := b.DB.ExecContext(ctx, b.upsertQuery(), b.Name, string(data), time.Now().UTC())
	return err
}
