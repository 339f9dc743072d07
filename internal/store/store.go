// Package store persists the catalog (products, printers, subscriptions) and
// print jobs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStatusConflict is returned when a status update finds the job in an
	// unexpected status.
	ErrStatusConflict = errors.New("status changed concurrently")
)

// Store is the SQLite implementation of the catalog and print-job storage.
type Store struct {
	db *sql.DB
}

// New wraps an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListOptions controls list ordering.
type ListOptions struct {
	SortBy  string
	SortDir string
}

// orderBy turns user supplied sort options into a safe ORDER BY clause. Unknown
// fields fall back to id.
func orderBy(opts ListOptions, allowed map[string]string) string {
	column, ok := allowed[strings.ToLower(opts.SortBy)]
	if !ok {
		column = "id"
	}
	dir := "ASC"
	if strings.EqualFold(opts.SortDir, "desc") {
		dir = "DESC"
	}
	if column == "id" {
		return "id " + dir
	}
	return column + " " + dir + ", id " + dir
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func requireAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
