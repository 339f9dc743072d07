package cogs

// Draft is an in-progress job. Every transform returns a new Draft and leaves
// the receiver untouched, so a draft can be shared between goroutines.
type Draft struct {
	products      []ProductLine
	printers      []PrinterLine
	packagingCost float64
}

// NewDraft returns an empty draft.
func NewDraft() Draft {
	return Draft{}
}

// AddProduct appends a product line. A product already present has its
// quantity increased instead. A zero quantity adds one unit; a negative
// quantity leaves the draft unchanged.
func (d Draft) AddProduct(productID int64, qty int) Draft {
	next := d.clone()
	if qty < 0 {
		return next
	}
	qty = quantity(qty)
	for i, line := range next.products {
		if line.ProductID == productID {
			next.products[i].Quantity = quantity(line.Quantity) + qty
			return next
		}
	}
	next.products = append(next.products, ProductLine{ProductID: productID, Quantity: qty})
	return next
}

// SetProductQuantity replaces the quantity of the product line. Setting a
// quantity below 1 removes the line.
func (d Draft) SetProductQuantity(productID int64, qty int) Draft {
	if qty < 1 {
		return d.RemoveProduct(productID)
	}
	next := d.clone()
	for i, line := range next.products {
		if line.ProductID == productID {
			next.products[i].Quantity = qty
		}
	}
	return next
}

// RemoveProduct drops the product line if present.
func (d Draft) RemoveProduct(productID int64) Draft {
	next := d.clone()
	kept := next.products[:0]
	for _, line := range next.products {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	next.products = kept
	return next
}

// SelectPrinter replaces the printer selection with a single printer.
// A zero id clears it.
func (d Draft) SelectPrinter(printerID int64) Draft {
	next := d.clone()
	if printerID == 0 {
		next.printers = nil
		return next
	}
	next.printers = []PrinterLine{{PrinterID: printerID, Quantity: 1}}
	return next
}

// SetPrinterQuantity sets the number of printer units for the selected printer.
// Zero means one unit; a negative quantity leaves the draft unchanged.
func (d Draft) SetPrinterQuantity(qty int) Draft {
	next := d.clone()
	if qty < 0 {
		return next
	}
	for i := range next.printers {
		next.printers[i].Quantity = quantity(qty)
	}
	return next
}

// SetPackagingCost replaces the packaging cost. Negative values are clamped to zero.
func (d Draft) SetPackagingCost(cost float64) Draft {
	next := d.clone()
	if !isNonNegative(cost) {
		cost = 0
	}
	next.packagingCost = cost
	return next
}

// Spec returns the job specification described by the draft.
func (d Draft) Spec() JobSpecification {
	c := d.clone()
	return JobSpecification{
		ProductLines:  c.products,
		PrinterLines:  c.printers,
		PackagingCost: c.packagingCost,
	}
}

func (d Draft) clone() Draft {
	return Draft{
		products:      append([]ProductLine(nil), d.products...),
		printers:      append([]PrinterLine(nil), d.printers...),
		packagingCost: d.packagingCost,
	}
}
