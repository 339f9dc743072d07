package seed

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	defaultPrinterName = "Impresora estándar"
	defaultProductName = "Pieza de prueba"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensurePrinter(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureProduct(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePrinter(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM printers WHERE name = ? LIMIT 1)`, defaultPrinterName).Scan(&exists); err != nil {
		return fmt.Errorf("check default printer existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO printers (name, model, purchase_price_eur, expected_life_hours, active)
		VALUES (?, ?, ?, ?, ?)
	`, defaultPrinterName, "FDM", 300, 1000, true); err != nil {
		return fmt.Errorf("insert default printer: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureProduct(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE name = ? LIMIT 1)`, defaultProductName).Scan(&exists); err != nil {
		return fmt.Errorf("check default product existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, sku, cop_eur, print_time_hours, active)
		VALUES (?, ?, ?, ?, ?)
	`, defaultProductName, "SAMPLE-1", 3.5, 1.5, true); err != nil {
		return fmt.Errorf("insert default product: %w", err)
	}
	stats.Inserts++
	return nil
}
