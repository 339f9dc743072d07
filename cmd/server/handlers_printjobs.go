package main

import (
	"net/http"

	"github.com/Simplici0/printcost/internal/cogs"
	"github.com/Simplici0/printcost/internal/printjobs"
	"github.com/Simplici0/printcost/internal/store"
)

type jobProductRequest struct {
	ProductID int64 `json:"product_id" validate:"gte=0"`
	ItemsQty  int   `json:"items_qty" validate:"gte=0"`
}

type jobPrinterRequest struct {
	PrinterID   int64 `json:"printer_id" validate:"gte=0"`
	PrintersQty int   `json:"printers_qty" validate:"gte=0"`
}

type printJobRequest struct {
	Title            string              `json:"title" validate:"max=200"`
	Products         []jobProductRequest `json:"products" validate:"dive"`
	Printers         []jobPrinterRequest `json:"printers" validate:"dive"`
	PackagingCostEUR float64             `json:"packaging_cost_eur" validate:"gte=0"`
}

func (req printJobRequest) input() printjobs.Input {
	in := printjobs.Input{Title: req.Title, PackagingCostEUR: req.PackagingCostEUR}
	for _, p := range req.Products {
		in.Products = append(in.Products, store.JobProduct{ProductID: p.ProductID, ItemsQty: p.ItemsQty})
	}
	for _, p := range req.Printers {
		in.Printers = append(in.Printers, store.JobPrinter{PrinterID: p.PrinterID, PrintersQty: p.PrintersQty})
	}
	return in
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=printing done canceled"`
}

type previewResponse struct {
	MaterialCostEUR     float64 `json:"material_cost_eur"`
	PrinterCostEUR      float64 `json:"printer_cost_eur"`
	PackagingCostEUR    float64 `json:"packaging_cost_eur"`
	TotalPrintTimeHours float64 `json:"total_print_time_hours"`
	TotalCostEUR        float64 `json:"total_cost_eur"`
	IsMeaningful        bool    `json:"is_meaningful"`
}

func newPreviewResponse(b cogs.CostBreakdown) previewResponse {
	return previewResponse{
		MaterialCostEUR:     b.MaterialCost,
		PrinterCostEUR:      b.PrinterCost,
		PackagingCostEUR:    b.PackagingCost,
		TotalPrintTimeHours: b.TotalPrintTimeHours,
		TotalCostEUR:        b.TotalCost,
		IsMeaningful:        b.IsMeaningful,
	}
}

func (s *server) handlePrintJobsList(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListPrintJobs(r.Context(), listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *server) handlePrintJobsGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.store.GetPrintJob(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *server) handlePrintJobsCreate(w http.ResponseWriter, r *http.Request) {
	var req printJobRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Create(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *server) handlePrintJobsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req printJobRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Update(r.Context(), id, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *server) handlePrintJobsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeletePrintJob(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePrintJobsStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Transition(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *server) handleCogsPreview(w http.ResponseWriter, r *http.Request) {
	var req printJobRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	breakdown, err := s.jobs.Preview(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreviewResponse(breakdown))
}
