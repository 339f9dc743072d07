package cogs

// ProductRef is the catalog view of a product used for costing.
type ProductRef struct {
	ID                 int64
	UnitMaterialCost   float64
	UnitPrintTimeHours float64
}

// PrinterRef is the catalog view of a printer profile used for amortization.
type PrinterRef struct {
	ID                    int64
	PurchasePrice         float64
	ExpectedLifetimeHours float64
}

// ProductLine references a product by id. A zero Quantity defaults to 1.
type ProductLine struct {
	ProductID int64
	Quantity  int
}

// PrinterLine references a printer by id. A zero Quantity defaults to 1.
type PrinterLine struct {
	PrinterID int64
	Quantity  int
}

// JobSpecification is the input of a single calculation.
type JobSpecification struct {
	ProductLines  []ProductLine
	PrinterLines  []PrinterLine
	PackagingCost float64
}

// CostBreakdown is the output of a calculation.
type CostBreakdown struct {
	MaterialCost        float64
	PrinterCost         float64
	PackagingCost       float64
	TotalPrintTimeHours float64
	TotalCost           float64
	IsMeaningful        bool
}

// Compute prices a job against a catalog snapshot.
//
// Lines whose product or printer cannot be resolved contribute nothing, and a
// printer with a zero purchase price or lifetime contributes nothing. Printer
// cost is only charged when the job has print time; each printer unit is charged
// for the whole job duration. Accumulation follows line order.
func Compute(spec JobSpecification, products []ProductRef, printers []PrinterRef) CostBreakdown {
	productIndex := indexProducts(products)
	printerIndex := indexPrinters(printers)

	var materialCost, printHours float64
	for _, line := range spec.ProductLines {
		product, ok := productIndex[line.ProductID]
		if !ok {
			continue
		}
		qty := float64(quantity(line.Quantity))
		materialCost += product.UnitMaterialCost * qty
		printHours += product.UnitPrintTimeHours * qty
	}

	var printerCost float64
	if printHours > 0 {
		for _, line := range spec.PrinterLines {
			printer, ok := printerIndex[line.PrinterID]
			if !ok {
				continue
			}
			rate := CostPerHour(printer)
			if rate == 0 {
				continue
			}
			printerCost += rate * printHours * float64(quantity(line.Quantity))
		}
	}

	total := materialCost + printerCost + spec.PackagingCost

	return CostBreakdown{
		MaterialCost:        materialCost,
		PrinterCost:         printerCost,
		PackagingCost:       spec.PackagingCost,
		TotalPrintTimeHours: printHours,
		TotalCost:           total,
		IsMeaningful:        total > 0,
	}
}

// CostPerHour returns the amortized hourly rate of a printer, or 0 when the
// purchase price or expected lifetime is not positive.
func CostPerHour(p PrinterRef) float64 {
	if p.ExpectedLifetimeHours <= 0 || p.PurchasePrice <= 0 {
		return 0
	}
	return p.PurchasePrice / p.ExpectedLifetimeHours
}

func quantity(q int) int {
	if q == 0 {
		return 1
	}
	return q
}

// first entry wins on duplicate ids
func indexProducts(products []ProductRef) map[int64]ProductRef {
	index := make(map[int64]ProductRef, len(products))
	for _, p := range products {
		if _, seen := index[p.ID]; !seen {
			index[p.ID] = p
		}
	}
	return index
}

func indexPrinters(printers []PrinterRef) map[int64]PrinterRef {
	index := make(map[int64]PrinterRef, len(printers))
	for _, p := range printers {
		if _, seen := index[p.ID]; !seen {
			index[p.ID] = p
		}
	}
	return index
}
