package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/printcost/internal/cogs"
)

// Product is a catalog product. CopEUR is the material cost of one unit.
type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	SKU            string  `json:"sku"`
	CopEUR         float64 `json:"cop_eur"`
	PrintTimeHours float64 `json:"print_time_hours"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// Printer is a printer profile used for amortized machine cost.
type Printer struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Model             string  `json:"model"`
	PurchasePriceEUR  float64 `json:"purchase_price_eur"`
	ExpectedLifeHours float64 `json:"expected_life_hours"`
	Active            bool    `json:"active"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// Catalog is a read-only copy of the data the cost calculator needs.
type Catalog struct {
	Products []cogs.ProductRef
	Printers []cogs.PrinterRef
}

var productSortColumns = map[string]string{
	"id":               "id",
	"name":             "name",
	"sku":              "sku",
	"cop_eur":          "cop_eur",
	"print_time_hours": "print_time_hours",
	"created_at":       "created_at",
}

var printerSortColumns = map[string]string{
	"id":                  "id",
	"name":                "name",
	"model":               "model",
	"purchase_price_eur":  "purchase_price_eur",
	"expected_life_hours": "expected_life_hours",
	"created_at":          "created_at",
}

// Snapshot reads every product and printer, active or not, in one transaction
// so a calculation never sees a half-updated catalog.
func (s *Store) Snapshot(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, cop_eur, print_time_hours FROM products ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query product refs: %w", err)
		}
		for rows.Next() {
			var p cogs.ProductRef
			if err := rows.Scan(&p.ID, &p.UnitMaterialCost, &p.UnitPrintTimeHours); err != nil {
				rows.Close()
				return fmt.Errorf("scan product ref: %w", err)
			}
			catalog.Products = append(catalog.Products, p)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("close product refs: %w", err)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate product refs: %w", err)
		}

		rows, err = tx.QueryContext(ctx, `SELECT id, purchase_price_eur, expected_life_hours FROM printers ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query printer refs: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var p cogs.PrinterRef
			if err := rows.Scan(&p.ID, &p.PurchasePrice, &p.ExpectedLifetimeHours); err != nil {
				return fmt.Errorf("scan printer ref: %w", err)
			}
			catalog.Printers = append(catalog.Printers, p)
		}
		return rows.Err()
	})
	if err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func (s *Store) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sku, cop_eur, print_time_hours, active, created_at, updated_at
		FROM products
		ORDER BY `+orderBy(opts, productSortColumns))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.CopEUR, &p.PrintTimeHours, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, sku, cop_eur, print_time_hours, active, created_at, updated_at
		FROM products
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.SKU, &p.CopEUR, &p.PrintTimeHours, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, sku, cop_eur, print_time_hours, active)
		VALUES (?, ?, ?, ?, ?)
	`, p.Name, p.SKU, p.CopEUR, p.PrintTimeHours, p.Active)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Product{}, fmt.Errorf("product last insert id: %w", err)
	}
	return s.GetProduct(ctx, id)
}

func (s *Store) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET
			name = ?,
			sku = ?,
			cop_eur = ?,
			print_time_hours = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.SKU, p.CopEUR, p.PrintTimeHours, p.Active, p.ID)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if err := requireAffected(result, "update product"); err != nil {
		return Product{}, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(result, "delete product")
}

func (s *Store) ListPrinters(ctx context.Context, opts ListOptions) ([]Printer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, model, purchase_price_eur, expected_life_hours, active, created_at, updated_at
		FROM printers
		ORDER BY `+orderBy(opts, printerSortColumns))
	if err != nil {
		return nil, fmt.Errorf("query printers: %w", err)
	}
	defer rows.Close()

	printers := make([]Printer, 0)
	for rows.Next() {
		var p Printer
		if err := rows.Scan(&p.ID, &p.Name, &p.Model, &p.PurchasePriceEUR, &p.ExpectedLifeHours, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		printers = append(printers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate printers: %w", err)
	}
	return printers, nil
}

func (s *Store) GetPrinter(ctx context.Context, id int64) (Printer, error) {
	var p Printer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, model, purchase_price_eur, expected_life_hours, active, created_at, updated_at
		FROM printers
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Model, &p.PurchasePriceEUR, &p.ExpectedLifeHours, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Printer{}, fmt.Errorf("printer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Printer{}, fmt.Errorf("query printer: %w", err)
	}
	return p, nil
}

func (s *Store) CreatePrinter(ctx context.Context, p Printer) (Printer, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO printers (name, model, purchase_price_eur, expected_life_hours, active)
		VALUES (?, ?, ?, ?, ?)
	`, p.Name, p.Model, p.PurchasePriceEUR, p.ExpectedLifeHours, p.Active)
	if err != nil {
		return Printer{}, fmt.Errorf("insert printer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Printer{}, fmt.Errorf("printer last insert id: %w", err)
	}
	return s.GetPrinter(ctx, id)
}

func (s *Store) UpdatePrinter(ctx context.Context, p Printer) (Printer, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE printers
		SET
			name = ?,
			model = ?,
			purchase_price_eur = ?,
			expected_life_hours = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Model, p.PurchasePriceEUR, p.ExpectedLifeHours, p.Active, p.ID)
	if err != nil {
		return Printer{}, fmt.Errorf("update printer: %w", err)
	}
	if err := requireAffected(result, "update printer"); err != nil {
		return Printer{}, err
	}
	return s.GetPrinter(ctx, p.ID)
}

func (s *Store) DeletePrinter(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM printers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete printer: %w", err)
	}
	return requireAffected(result, "delete printer")
}
