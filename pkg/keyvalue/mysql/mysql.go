package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/abhishek622/screenscene/pkg/keyvalue"
	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
)

// Store defines a mysql-backed key-value store. All records live in a
// single kv_records table so the flat key namespace of the substrate is
// preserved.
type Store struct {
	db *sql.DB
}

const tracerID = "keyvalue-store-mysql"

// New creates a new mysql store for the given DSN.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db}, nil
}

// Get retrieves the value stored under a key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Store/Get")
	defer span.End()

	var value []byte
	row := s.db.QueryRowContext(ctx, "SELECT v FROM kv_records WHERE k = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, keyvalue.ErrNoRecord
		}
		return nil, err
	}
	return value, nil
}

// Set stores a value under a key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Store/Set")
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv_records (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)",
		key, value)
	return err
}

// Delete removes the value stored under a key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Store/Delete")
	defer span.End()

	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_records WHERE k = ?", key)
	return err
}
