package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Print job statuses.
const (
	StatusQueued   = "queued"
	StatusPrinting = "printing"
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// JobProduct is one product line of a print job.
type JobProduct struct {
	ProductID int64 `json:"product_id"`
	ItemsQty  int   `json:"items_qty"`
}

// JobPrinter is one printer line of a print job.
type JobPrinter struct {
	PrinterID   int64 `json:"printer_id"`
	PrintersQty int   `json:"printers_qty"`
}

// PrintJob is a persisted job with its authoritative cost.
type PrintJob struct {
	ID                  int64        `json:"id"`
	Reference           string       `json:"reference"`
	Title               string       `json:"title"`
	Products            []JobProduct `json:"products"`
	Printers            []JobPrinter `json:"printers"`
	PackagingCostEUR    float64      `json:"packaging_cost_eur"`
	CalculatedCogsEUR   float64      `json:"calculated_cogs_eur"`
	TotalPrintTimeHours float64      `json:"total_print_time_hours"`
	Status              string       `json:"status"`
	CreatedAt           string       `json:"created_at"`
	UpdatedAt           string       `json:"updated_at"`
}

var printJobSortColumns = map[string]string{
	"id":                     "id",
	"title":                  "title",
	"status":                 "status",
	"calculated_cogs_eur":    "calculated_cogs_eur",
	"total_print_time_hours": "total_print_time_hours",
	"created_at":             "created_at",
}

func (s *Store) ListPrintJobs(ctx context.Context, opts ListOptions) ([]PrintJob, error) {
	var jobs []PrintJob
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, reference, title, packaging_cost_eur, calculated_cogs_eur, total_print_time_hours, status, created_at, updated_at
			FROM print_jobs
			ORDER BY `+orderBy(opts, printJobSortColumns))
		if err != nil {
			return fmt.Errorf("query print jobs: %w", err)
		}
		jobs = make([]PrintJob, 0)
		for rows.Next() {
			job, err := scanPrintJob(rows)
			if err != nil {
				rows.Close()
				return err
			}
			jobs = append(jobs, job)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("close print jobs: %w", err)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate print jobs: %w", err)
		}

		for i := range jobs {
			if err := loadJobLines(ctx, tx, &jobs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) GetPrintJob(ctx context.Context, id int64) (PrintJob, error) {
	var job PrintJob
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, reference, title, packaging_cost_eur, calculated_cogs_eur, total_print_time_hours, status, created_at, updated_at
			FROM print_jobs
			WHERE id = ?
		`, id)
		var err error
		job, err = scanPrintJob(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("print job %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return loadJobLines(ctx, tx, &job)
	})
	if err != nil {
		return PrintJob{}, err
	}
	return job, nil
}

// CreatePrintJob inserts the job and its lines. Cost fields are stored as given.
func (s *Store) CreatePrintJob(ctx context.Context, job PrintJob) (PrintJob, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO print_jobs (reference, title, packaging_cost_eur, calculated_cogs_eur, total_print_time_hours, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`, job.Reference, job.Title, job.PackagingCostEUR, job.CalculatedCogsEUR, job.TotalPrintTimeHours, job.Status)
		if err != nil {
			return fmt.Errorf("insert print job: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("print job last insert id: %w", err)
		}
		return insertJobLines(ctx, tx, id, job)
	})
	if err != nil {
		return PrintJob{}, err
	}
	return s.GetPrintJob(ctx, id)
}

// UpdatePrintJob replaces the job's editable fields and lines. Status and
// reference are left untouched. A job that is done or canceled is not
// modified and ErrStatusConflict is returned.
func (s *Store) UpdatePrintJob(ctx context.Context, job PrintJob) (PrintJob, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE print_jobs
			SET
				title = ?,
				packaging_cost_eur = ?,
				calculated_cogs_eur = ?,
				total_print_time_hours = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status NOT IN (?, ?)
		`, job.Title, job.PackagingCostEUR, job.CalculatedCogsEUR, job.TotalPrintTimeHours, job.ID, StatusDone, StatusCanceled)
		if err != nil {
			return fmt.Errorf("update print job: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update print job rows affected: %w", err)
		}
		if affected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM print_jobs WHERE id = ?)`, job.ID).Scan(&exists); err != nil {
				return fmt.Errorf("check print job existence: %w", err)
			}
			if !exists {
				return fmt.Errorf("print job %d: %w", job.ID, ErrNotFound)
			}
			return fmt.Errorf("print job %d: %w", job.ID, ErrStatusConflict)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM print_job_products WHERE print_job_id = ?`, job.ID); err != nil {
			return fmt.Errorf("clear print job products: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM print_job_printers WHERE print_job_id = ?`, job.ID); err != nil {
			return fmt.Errorf("clear print job printers: %w", err)
		}
		return insertJobLines(ctx, tx, job.ID, job)
	})
	if err != nil {
		return PrintJob{}, err
	}
	return s.GetPrintJob(ctx, job.ID)
}

// UpdatePrintJobStatus moves a job from one status to another. It returns
// ErrStatusConflict when the job is no longer in the from status.
func (s *Store) UpdatePrintJobStatus(ctx context.Context, id int64, from, to string) (PrintJob, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE print_jobs
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return PrintJob{}, fmt.Errorf("update print job status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return PrintJob{}, fmt.Errorf("update print job status rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetPrintJob(ctx, id); err != nil {
			return PrintJob{}, err
		}
		return PrintJob{}, ErrStatusConflict
	}
	return s.GetPrintJob(ctx, id)
}

func (s *Store) DeletePrintJob(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM print_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete print job: %w", err)
	}
	return requireAffected(result, "delete print job")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrintJob(row rowScanner) (PrintJob, error) {
	var job PrintJob
	err := row.Scan(
		&job.ID,
		&job.Reference,
		&job.Title,
		&job.PackagingCostEUR,
		&job.CalculatedCogsEUR,
		&job.TotalPrintTimeHours,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return PrintJob{}, err
	}
	if err != nil {
		return PrintJob{}, fmt.Errorf("scan print job: %w", err)
	}
	return job, nil
}

func insertJobLines(ctx context.Context, tx *sql.Tx, jobID int64, job PrintJob) error {
	for i, line := range job.Products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO print_job_products (print_job_id, position, product_id, items_qty)
			VALUES (?, ?, ?, ?)
		`, jobID, i, line.ProductID, line.ItemsQty); err != nil {
			return fmt.Errorf("insert print job product: %w", err)
		}
	}
	for i, line := range job.Printers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO print_job_printers (print_job_id, position, printer_id, printers_qty)
			VALUES (?, ?, ?, ?)
		`, jobID, i, line.PrinterID, line.PrintersQty); err != nil {
			return fmt.Errorf("insert print job printer: %w", err)
		}
	}
	return nil
}

func loadJobLines(ctx context.Context, tx *sql.Tx, job *PrintJob) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, items_qty FROM print_job_products
		WHERE print_job_id = ?
		ORDER BY position
	`, job.ID)
	if err != nil {
		return fmt.Errorf("query print job products: %w", err)
	}
	job.Products = make([]JobProduct, 0)
	for rows.Next() {
		var line JobProduct
		if err := rows.Scan(&line.ProductID, &line.ItemsQty); err != nil {
			rows.Close()
			return fmt.Errorf("scan print job product: %w", err)
		}
		job.Products = append(job.Products, line)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close print job products: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate print job products: %w", err)
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT printer_id, printers_qty FROM print_job_printers
		WHERE print_job_id = ?
		ORDER BY position
	`, job.ID)
	if err != nil {
		return fmt.Errorf("query print job printers: %w", err)
	}
	defer rows.Close()
	job.Printers = make([]JobPrinter, 0)
	for rows.Next() {
		var line JobPrinter
		if err := rows.Scan(&line.PrinterID, &line.PrintersQty); err != nil {
			return fmt.Errorf("scan print job printer: %w", err)
		}
		job.Printers = append(job.Printers, line)
	}
	return rows.Err()
}
