package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printcost/internal/cogs"
	"github.com/Simplici0/printcost/internal/db"
	"github.com/Simplici0/printcost/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database))
	return New(database)
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateProduct(ctx, Product{Name: "Vase", SKU: "V-1", CopEUR: 3.5, PrintTimeHours: 1.5, Active: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Vase", created.Name)
	require.InDelta(t, 3.5, created.CopEUR, 1e-9)
	require.True(t, created.Active)

	created.Name = "Tall vase"
	created.Active = false
	updated, err := s.UpdateProduct(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Tall vase", updated.Name)
	require.False(t, updated.Active)

	require.NoError(t, s.DeleteProduct(ctx, created.ID))
	_, err = s.GetProduct(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteProduct(ctx, created.ID), ErrNotFound)
}

func TestUpdateMissingPrinterReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdatePrinter(context.Background(), Printer{ID: 99, Name: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsSorting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, p := range []Product{
		{Name: "b", CopEUR: 2},
		{Name: "c", CopEUR: 1},
		{Name: "a", CopEUR: 3},
	} {
		_, err := s.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	byName, err := s.ListProducts(ctx, ListOptions{SortBy: "name"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, productNames(byName))

	byCostDesc, err := s.ListProducts(ctx, ListOptions{SortBy: "cop_eur", SortDir: "desc"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, productNames(byCostDesc))

	unknown, err := s.ListProducts(ctx, ListOptions{SortBy: "name; DROP TABLE products"})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "a"}, productNames(unknown))
}

func TestSubscriptionCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.CreateSubscription(ctx, Subscription{Name: "Slicer Pro", Provider: "Acme", MonthlyCostEUR: 9.99, RenewsOn: "2026-11-01", Active: true})
	require.NoError(t, err)

	sub.MonthlyCostEUR = 12
	sub, err = s.UpdateSubscription(ctx, sub)
	require.NoError(t, err)
	require.InDelta(t, 12, sub.MonthlyCostEUR, 1e-9)

	subs, err := s.ListSubscriptions(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, subs, 1)

	require.NoError(t, s.DeleteSubscription(ctx, sub.ID))
}

func TestSnapshotReturnsCalculatorRefs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	product, err := s.CreateProduct(ctx, Product{Name: "Vase", CopEUR: 3.5, PrintTimeHours: 1.5, Active: true})
	require.NoError(t, err)
	printer, err := s.CreatePrinter(ctx, Printer{Name: "MK4", PurchasePriceEUR: 300, ExpectedLifeHours: 1000, Active: false})
	require.NoError(t, err)

	catalog, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []cogs.ProductRef{{ID: product.ID, UnitMaterialCost: 3.5, UnitPrintTimeHours: 1.5}}, catalog.Products)
	require.Equal(t, []cogs.PrinterRef{{ID: printer.ID, PurchasePrice: 300, ExpectedLifetimeHours: 1000}}, catalog.Printers)
}

func TestPrintJobLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	job, err := s.CreatePrintJob(ctx, PrintJob{
		Reference:         "ref-1",
		Title:             "Order 1",
		Products:          []JobProduct{{ProductID: 2, ItemsQty: 3}, {ProductID: 1, ItemsQty: 1}},
		Printers:          []JobPrinter{{PrinterID: 1, PrintersQty: 1}},
		PackagingCostEUR:  0.5,
		CalculatedCogsEUR: 8.4,
		Status:            StatusQueued,
	})
	require.NoError(t, err)
	require.Equal(t, []JobProduct{{ProductID: 2, ItemsQty: 3}, {ProductID: 1, ItemsQty: 1}}, job.Products)
	require.Equal(t, StatusQueued, job.Status)

	job.Title = "Order 1b"
	job.Products = []JobProduct{{ProductID: 1, ItemsQty: 5}}
	job.Printers = nil
	job.CalculatedCogsEUR = 17.5
	job, err = s.UpdatePrintJob(ctx, job)
	require.NoError(t, err)
	require.Equal(t, "Order 1b", job.Title)
	require.Equal(t, []JobProduct{{ProductID: 1, ItemsQty: 5}}, job.Products)
	require.Empty(t, job.Printers)
	require.InDelta(t, 17.5, job.CalculatedCogsEUR, 1e-9)

	job, err = s.UpdatePrintJobStatus(ctx, job.ID, StatusQueued, StatusPrinting)
	require.NoError(t, err)
	require.Equal(t, StatusPrinting, job.Status)

	_, err = s.UpdatePrintJobStatus(ctx, job.ID, StatusQueued, StatusCanceled)
	require.ErrorIs(t, err, ErrStatusConflict)

	_, err = s.UpdatePrintJobStatus(ctx, 999, StatusQueued, StatusCanceled)
	require.ErrorIs(t, err, ErrNotFound)

	job, err = s.UpdatePrintJobStatus(ctx, job.ID, StatusPrinting, StatusDone)
	require.NoError(t, err)
	job.CalculatedCogsEUR = 1
	_, err = s.UpdatePrintJob(ctx, job)
	require.ErrorIs(t, err, ErrStatusConflict)
	stored, err := s.GetPrintJob(ctx, job.ID)
	require.NoError(t, err)
	require.InDelta(t, 17.5, stored.CalculatedCogsEUR, 1e-9)

	_, err = s.UpdatePrintJob(ctx, PrintJob{ID: 999})
	require.ErrorIs(t, err, ErrNotFound)

	jobs, err := s.ListPrintJobs(ctx, ListOptions{SortBy: "created_at", SortDir: "desc"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Len(t, jobs[0].Products, 1)

	require.NoError(t, s.DeletePrintJob(ctx, job.ID))
	_, err = s.GetPrintJob(ctx, job.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func productNames(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}
