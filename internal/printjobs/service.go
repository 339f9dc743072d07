// Package printjobs prices and persists print jobs. The cost stored on a job
// is computed here from a fresh catalog snapshot, never taken from the client.
package printjobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/cogs"
	"github.com/Simplici0/printcost/internal/store"
)

// ErrInvalidTransition is returned for a status change the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// Repository is the print-job storage the service needs.
type Repository interface {
	Snapshot(ctx context.Context) (store.Catalog, error)
	GetPrintJob(ctx context.Context, id int64) (store.PrintJob, error)
	CreatePrintJob(ctx context.Context, job store.PrintJob) (store.PrintJob, error)
	UpdatePrintJob(ctx context.Context, job store.PrintJob) (store.PrintJob, error)
	UpdatePrintJobStatus(ctx context.Context, id int64, from, to string) (store.PrintJob, error)
}

// Input is the client supplied part of a print job.
type Input struct {
	Title            string
	Products         []store.JobProduct
	Printers         []store.JobPrinter
	PackagingCostEUR float64
}

// Spec converts the input into a calculator job specification.
func (in Input) Spec() cogs.JobSpecification {
	spec := cogs.JobSpecification{PackagingCost: in.PackagingCostEUR}
	for _, p := range in.Products {
		spec.ProductLines = append(spec.ProductLines, cogs.ProductLine{ProductID: p.ProductID, Quantity: p.ItemsQty})
	}
	for _, p := range in.Printers {
		spec.PrinterLines = append(spec.PrinterLines, cogs.PrinterLine{PrinterID: p.PrinterID, Quantity: p.PrintersQty})
	}
	return spec
}

// Service prices and stores print jobs.
type Service struct {
	repo   Repository
	calc   cogs.Calculator
	logger *zap.Logger
	newRef func() string
}

// NewService builds a service. strict controls whether jobs with unresolved
// catalog references are rejected at submission.
func NewService(repo Repository, strict bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		calc:   cogs.Calculator{Strict: strict},
		logger: logger,
		newRef: func() string { return uuid.NewString() },
	}
}

// Preview prices a job leniently against the current catalog. Unknown
// references contribute nothing; only malformed numbers are rejected.
func (s *Service) Preview(ctx context.Context, in Input) (cogs.CostBreakdown, error) {
	spec := in.Spec()
	if err := cogs.Validate(spec); err != nil {
		return cogs.CostBreakdown{}, err
	}
	catalog, err := s.repo.Snapshot(ctx)
	if err != nil {
		return cogs.CostBreakdown{}, fmt.Errorf("load catalog snapshot: %w", err)
	}
	return cogs.Compute(spec, catalog.Products, catalog.Printers), nil
}

// Create prices and stores a new job in the queued status.
func (s *Service) Create(ctx context.Context, in Input) (store.PrintJob, error) {
	breakdown, err := s.price(ctx, in)
	if err != nil {
		return store.PrintJob{}, err
	}

	job, err := s.repo.CreatePrintJob(ctx, store.PrintJob{
		Reference:           s.newRef(),
		Title:               in.Title,
		Products:            normalizeProducts(in.Products),
		Printers:            normalizePrinters(in.Printers),
		PackagingCostEUR:    breakdown.PackagingCost,
		CalculatedCogsEUR:   breakdown.TotalCost,
		TotalPrintTimeHours: breakdown.TotalPrintTimeHours,
		Status:              store.StatusQueued,
	})
	if err != nil {
		return store.PrintJob{}, err
	}

	s.logger.Info("print job created",
		zap.Int64("id", job.ID),
		zap.String("reference", job.Reference),
		zap.Float64("calculated_cogs_eur", job.CalculatedCogsEUR),
	)
	return job, nil
}

// Update reprices an existing job with new lines. Finished or canceled jobs
// cannot be edited.
func (s *Service) Update(ctx context.Context, id int64, in Input) (store.PrintJob, error) {
	current, err := s.repo.GetPrintJob(ctx, id)
	if err != nil {
		return store.PrintJob{}, err
	}
	if current.Status == store.StatusDone || current.Status == store.StatusCanceled {
		return store.PrintJob{}, fmt.Errorf("edit %s job: %w", current.Status, ErrInvalidTransition)
	}

	breakdown, err := s.price(ctx, in)
	if err != nil {
		return store.PrintJob{}, err
	}

	current.Title = in.Title
	current.Products = normalizeProducts(in.Products)
	current.Printers = normalizePrinters(in.Printers)
	current.PackagingCostEUR = breakdown.PackagingCost
	current.CalculatedCogsEUR = breakdown.TotalCost
	current.TotalPrintTimeHours = breakdown.TotalPrintTimeHours

	job, err := s.repo.UpdatePrintJob(ctx, current)
	if errors.Is(err, store.ErrStatusConflict) {
		return store.PrintJob{}, fmt.Errorf("edit finished job: %w", ErrInvalidTransition)
	}
	if err != nil {
		return store.PrintJob{}, err
	}

	s.logger.Info("print job repriced",
		zap.Int64("id", job.ID),
		zap.Float64("calculated_cogs_eur", job.CalculatedCogsEUR),
	)
	return job, nil
}

// Transition moves a job to the requested status.
func (s *Service) Transition(ctx context.Context, id int64, to string) (store.PrintJob, error) {
	current, err := s.repo.GetPrintJob(ctx, id)
	if err != nil {
		return store.PrintJob{}, err
	}
	if !CanTransition(current.Status, to) {
		return store.PrintJob{}, fmt.Errorf("%s -> %s: %w", current.Status, to, ErrInvalidTransition)
	}

	job, err := s.repo.UpdatePrintJobStatus(ctx, id, current.Status, to)
	if err != nil {
		return store.PrintJob{}, err
	}

	s.logger.Info("print job status changed",
		zap.Int64("id", id),
		zap.String("from", current.Status),
		zap.String("to", to),
	)
	return job, nil
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to string) bool {
	switch to {
	case store.StatusPrinting:
		return from == store.StatusQueued
	case store.StatusDone:
		return from == store.StatusPrinting
	case store.StatusCanceled:
		return from == store.StatusQueued || from == store.StatusPrinting
	}
	return false
}

func (s *Service) price(ctx context.Context, in Input) (cogs.CostBreakdown, error) {
	spec := in.Spec()
	if err := cogs.Validate(spec); err != nil {
		return cogs.CostBreakdown{}, err
	}
	catalog, err := s.repo.Snapshot(ctx)
	if err != nil {
		return cogs.CostBreakdown{}, fmt.Errorf("load catalog snapshot: %w", err)
	}
	return s.calc.Compute(spec, catalog.Products, catalog.Printers)
}

// quantities of zero are stored as the default of 1
func normalizeProducts(lines []store.JobProduct) []store.JobProduct {
	out := make([]store.JobProduct, 0, len(lines))
	for _, l := range lines {
		if l.ItemsQty == 0 {
			l.ItemsQty = 1
		}
		out = append(out, l)
	}
	return out
}

func normalizePrinters(lines []store.JobPrinter) []store.JobPrinter {
	out := make([]store.JobPrinter, 0, len(lines))
	for _, l := range lines {
		if l.PrintersQty == 0 {
			l.PrintersQty = 1
		}
		out = append(out, l)
	}
	return out
}
