package cogs

import (
	"fmt"
	"math"
	"strings"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a job specification is rejected.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "invalid job specification: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Validate checks the numeric sanity of a job specification at the boundary.
// It does not resolve references, so lines without a product or printer pass.
func Validate(spec JobSpecification) error {
	verr := &ValidationError{}
	if !isNonNegative(spec.PackagingCost) {
		verr.add("packaging_cost_eur", "must be a non-negative number")
	}
	for i, line := range spec.ProductLines {
		if line.Quantity < 0 {
			verr.add(fmt.Sprintf("products[%d].items_qty", i), "must be positive")
		}
	}
	for i, line := range spec.PrinterLines {
		if line.Quantity < 0 {
			verr.add(fmt.Sprintf("printers[%d].printers_qty", i), "must be positive")
		}
	}
	return verr.orNil()
}

// Calculator wraps Compute with an optional strict mode. In strict mode a job
// with invalid numbers or unresolved references is rejected instead of being
// priced with zero contributions.
type Calculator struct {
	Strict bool
}

// Compute prices the job, returning a *ValidationError in strict mode when the
// job is incomplete.
func (c Calculator) Compute(spec JobSpecification, products []ProductRef, printers []PrinterRef) (CostBreakdown, error) {
	if c.Strict {
		if err := checkStrict(spec, products, printers); err != nil {
			return CostBreakdown{}, err
		}
	}
	return Compute(spec, products, printers), nil
}

func checkStrict(spec JobSpecification, products []ProductRef, printers []PrinterRef) error {
	verr := &ValidationError{}
	if err := Validate(spec); err != nil {
		verr.Problems = append(verr.Problems, err.(*ValidationError).Problems...)
	}

	productIndex := indexProducts(products)
	for i, line := range spec.ProductLines {
		if line.ProductID <= 0 {
			verr.add(fmt.Sprintf("products[%d].product_id", i), "is required")
			continue
		}
		p, ok := productIndex[line.ProductID]
		if !ok {
			verr.add(fmt.Sprintf("products[%d].product_id", i), "unknown product %d", line.ProductID)
			continue
		}
		if !isNonNegative(p.UnitMaterialCost) || !isNonNegative(p.UnitPrintTimeHours) {
			verr.add(fmt.Sprintf("products[%d].product_id", i), "product %d has negative cost or print time", p.ID)
		}
	}

	printerIndex := indexPrinters(printers)
	for i, line := range spec.PrinterLines {
		if line.PrinterID <= 0 {
			verr.add(fmt.Sprintf("printers[%d].printer_id", i), "is required")
			continue
		}
		p, ok := printerIndex[line.PrinterID]
		if !ok {
			verr.add(fmt.Sprintf("printers[%d].printer_id", i), "unknown printer %d", line.PrinterID)
			continue
		}
		if !isNonNegative(p.PurchasePrice) || !isNonNegative(p.ExpectedLifetimeHours) {
			verr.add(fmt.Sprintf("printers[%d].printer_id", i), "printer %d has negative price or lifetime", p.ID)
		}
	}

	return verr.orNil()
}

func isNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
