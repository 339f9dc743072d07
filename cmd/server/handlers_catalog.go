package main

import (
	"net/http"

	"github.com/Simplici0/printcost/internal/store"
)

type productRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	SKU            string   `json:"sku" validate:"max=64"`
	CopEUR         *float64 `json:"cop_eur" validate:"required,gte=0"`
	PrintTimeHours float64  `json:"print_time_hours" validate:"gte=0"`
	Active         *bool    `json:"active"`
}

func (req productRequest) product(id int64) store.Product {
	return store.Product{
		ID:             id,
		Name:           req.Name,
		SKU:            req.SKU,
		CopEUR:         *req.CopEUR,
		PrintTimeHours: req.PrintTimeHours,
		Active:         activeOrDefault(req.Active),
	}
}

type printerRequest struct {
	Name              string   `json:"name" validate:"required,max=200"`
	Model             string   `json:"model" validate:"max=200"`
	PurchasePriceEUR  *float64 `json:"purchase_price_eur" validate:"required,gte=0"`
	ExpectedLifeHours *float64 `json:"expected_life_hours" validate:"required,gte=0"`
	Active            *bool    `json:"active"`
}

func (req printerRequest) printer(id int64) store.Printer {
	return store.Printer{
		ID:                id,
		Name:              req.Name,
		Model:             req.Model,
		PurchasePriceEUR:  *req.PurchasePriceEUR,
		ExpectedLifeHours: *req.ExpectedLifeHours,
		Active:            activeOrDefault(req.Active),
	}
}

type subscriptionRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Provider       string  `json:"provider" validate:"max=200"`
	MonthlyCostEUR float64 `json:"monthly_cost_eur" validate:"gte=0"`
	RenewsOn       string  `json:"renews_on" validate:"omitempty,datetime=2006-01-02"`
	Active         *bool   `json:"active"`
}

func (req subscriptionRequest) subscription(id int64) store.Subscription {
	return store.Subscription{
		ID:             id,
		Name:           req.Name,
		Provider:       req.Provider,
		MonthlyCostEUR: req.MonthlyCostEUR,
		RenewsOn:       req.RenewsOn,
		Active:         activeOrDefault(req.Active),
	}
}

func activeOrDefault(active *bool) bool {
	if active == nil {
		return true
	}
	return *active
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context(), listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *server) handleProductsGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	product, err := s.store.CreateProduct(r.Context(), req.product(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *server) handleProductsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req productRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	product, err := s.store.UpdateProduct(r.Context(), req.product(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleProductsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePrintersList(w http.ResponseWriter, r *http.Request) {
	printers, err := s.store.ListPrinters(r.Context(), listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, printers)
}

func (s *server) handlePrintersGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	printer, err := s.store.GetPrinter(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, printer)
}

func (s *server) handlePrintersCreate(w http.ResponseWriter, r *http.Request) {
	var req printerRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	printer, err := s.store.CreatePrinter(r.Context(), req.printer(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, printer)
}

func (s *server) handlePrintersUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req printerRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	printer, err := s.store.UpdatePrinter(r.Context(), req.printer(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, printer)
}

func (s *server) handlePrintersDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeletePrinter(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSubscriptionsList(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscriptions(r.Context(), listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *server) handleSubscriptionsGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.store.GetSubscription(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *server) handleSubscriptionsCreate(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.store.CreateSubscription(r.Context(), req.subscription(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *server) handleSubscriptionsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req subscriptionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.store.UpdateSubscription(r.Context(), req.subscription(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *server) handleSubscriptionsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteSubscription(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
