package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("key not found")

// Get returns the value stored under key
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, db.DB, key)
}

// Put stores value under key, replacing any previous value
func (db *DB) Put(ctx context.Context, key string, value []byte) error {
	return put(ctx, db.DB, key, value)
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Update reads key and writes back what fn returns, inside one transaction.
// current is nil when the key is absent.
func (db *DB) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := get(ctx, tx, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return put(ctx, tx, key, next)
	})
}

func get(ctx context.Context, q sqlx.QueryerContext, key string) ([]byte, error) {
	var value string
	err := sqlx.GetContext(ctx, q, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return []byte(value), nil
}

func put(ctx context.Context, e sqlx.ExecerContext, key string, value []byte) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
