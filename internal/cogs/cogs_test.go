package cogs

import (
	"math"
	"math/rand"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

var (
	testProducts = []ProductRef{
		{ID: 1, UnitMaterialCost: 3.50, UnitPrintTimeHours: 1.5},
		{ID: 2, UnitMaterialCost: 1.25, UnitPrintTimeHours: 0.5},
		{ID: 3, UnitMaterialCost: 2.00, UnitPrintTimeHours: 0},
	}
	testPrinters = []PrinterRef{
		{ID: 1, PurchasePrice: 300, ExpectedLifetimeHours: 1000},
		{ID: 2, PurchasePrice: 800, ExpectedLifetimeHours: 0},
		{ID: 3, PurchasePrice: 0, ExpectedLifetimeHours: 2000},
	}
)

func TestCompute_ConcreteScenario(t *testing.T) {
	spec := JobSpecification{
		ProductLines:  []ProductLine{{ProductID: 1, Quantity: 2}},
		PrinterLines:  []PrinterLine{{PrinterID: 1, Quantity: 1}},
		PackagingCost: 0.50,
	}

	result := Compute(spec, testProducts, testPrinters)

	nearlyEqual(t, "materialCost", result.MaterialCost, 7.00)
	nearlyEqual(t, "totalPrintTimeHours", result.TotalPrintTimeHours, 3.0)
	nearlyEqual(t, "costPerHour", CostPerHour(testPrinters[0]), 0.30)
	nearlyEqual(t, "printerCost", result.PrinterCost, 0.90)
	nearlyEqual(t, "packagingCost", result.PackagingCost, 0.50)
	nearlyEqual(t, "totalCost", result.TotalCost, 8.40)
	if !result.IsMeaningful {
		t.Fatalf("expected meaningful breakdown")
	}
}

func TestCompute_EmptyJob(t *testing.T) {
	result := Compute(JobSpecification{}, testProducts, testPrinters)

	if result.TotalCost != 0 {
		t.Fatalf("totalCost = %v, want 0", result.TotalCost)
	}
	if result.IsMeaningful {
		t.Fatalf("expected empty job to not be meaningful")
	}
}

func TestCompute_QuantityDefaultsToOne(t *testing.T) {
	spec := JobSpecification{
		ProductLines: []ProductLine{{ProductID: 2}},
		PrinterLines: []PrinterLine{{PrinterID: 1}},
	}

	result := Compute(spec, testProducts, testPrinters)

	nearlyEqual(t, "materialCost", result.MaterialCost, 1.25)
	nearlyEqual(t, "printerCost", result.PrinterCost, 0.15)
}

func TestCompute_ZeroPrintTimeMeansNoPrinterCost(t *testing.T) {
	spec := JobSpecification{
		ProductLines: []ProductLine{{ProductID: 3, Quantity: 4}},
		PrinterLines: []PrinterLine{{PrinterID: 1, Quantity: 3}},
	}

	result := Compute(spec, testProducts, testPrinters)

	nearlyEqual(t, "materialCost", result.MaterialCost, 8)
	nearlyEqual(t, "printerCost", result.PrinterCost, 0)

	noProducts := Compute(JobSpecification{PrinterLines: spec.PrinterLines}, testProducts, testPrinters)
	nearlyEqual(t, "printerCost without products", noProducts.PrinterCost, 0)
}

func TestCompute_DegenerateRatesContributeZero(t *testing.T) {
	spec := JobSpecification{
		ProductLines: []ProductLine{{ProductID: 1, Quantity: 1}},
		PrinterLines: []PrinterLine{{PrinterID: 2, Quantity: 1}, {PrinterID: 3, Quantity: 5}},
	}

	result := Compute(spec, testProducts, testPrinters)

	nearlyEqual(t, "printerCost", result.PrinterCost, 0)
	nearlyEqual(t, "totalCost", result.TotalCost, 3.5)
}

func TestCompute_EveryPrinterUnitChargedForFullJob(t *testing.T) {
	spec := JobSpecification{
		ProductLines: []ProductLine{{ProductID: 1, Quantity: 2}},
		PrinterLines: []PrinterLine{{PrinterID: 1, Quantity: 3}},
	}

	result := Compute(spec, testProducts, testPrinters)

	nearlyEqual(t, "printerCost", result.PrinterCost, 0.30*3.0*3)
}

func TestCompute_UnresolvedReferencesAreSkipped(t *testing.T) {
	base := JobSpecification{
		ProductLines:  []ProductLine{{ProductID: 1, Quantity: 2}},
		PrinterLines:  []PrinterLine{{PrinterID: 1, Quantity: 1}},
		PackagingCost: 0.5,
	}
	withMissing := JobSpecification{
		ProductLines:  []ProductLine{{ProductID: 1, Quantity: 2}, {ProductID: 99, Quantity: 7}},
		PrinterLines:  []PrinterLine{{PrinterID: 42, Quantity: 1}, {PrinterID: 1, Quantity: 1}},
		PackagingCost: 0.5,
	}

	want := Compute(base, testProducts, testPrinters)
	got := Compute(withMissing, testProducts, testPrinters)

	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	spec := JobSpecification{
		ProductLines: []ProductLine{{ProductID: 1}},
		PrinterLines: []PrinterLine{{PrinterID: 1}},
	}
	products := append([]ProductRef(nil), testProducts...)

	_ = Compute(spec, products, testPrinters)

	if spec.ProductLines[0].Quantity != 0 || spec.PrinterLines[0].Quantity != 0 {
		t.Fatalf("spec was mutated: %+v", spec)
	}
	for i := range products {
		if products[i] != testProducts[i] {
			t.Fatalf("catalog was mutated at %d", i)
		}
	}
}

func TestCompute_MaterialCostIsAdditive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := randomProductLines(rng)
		b := randomProductLines(rng)

		ra := Compute(JobSpecification{ProductLines: a}, testProducts, nil)
		rb := Compute(JobSpecification{ProductLines: b}, testProducts, nil)
		rab := Compute(JobSpecification{ProductLines: append(append([]ProductLine(nil), a...), b...)}, testProducts, nil)

		if math.Abs(rab.MaterialCost-(ra.MaterialCost+rb.MaterialCost)) > 1e-6 {
			t.Fatalf("iteration %d: %v != %v + %v", i, rab.MaterialCost, ra.MaterialCost, rb.MaterialCost)
		}
	}
}

func TestCompute_TotalIsSumOfParts(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		spec := JobSpecification{
			ProductLines:  randomProductLines(rng),
			PrinterLines:  []PrinterLine{{PrinterID: int64(rng.Intn(4) + 1), Quantity: rng.Intn(3)}},
			PackagingCost: rng.Float64() * 5,
		}

		result := Compute(spec, testProducts, testPrinters)

		if result.TotalCost != result.MaterialCost+result.PrinterCost+result.PackagingCost {
			t.Fatalf("iteration %d: total %v is not the sum of %+v", i, result.TotalCost, result)
		}
		if result.IsMeaningful != (result.TotalCost > 0) {
			t.Fatalf("iteration %d: isMeaningful=%v for total %v", i, result.IsMeaningful, result.TotalCost)
		}
	}
}

func TestCompute_DuplicateCatalogIDsFirstWins(t *testing.T) {
	products := []ProductRef{
		{ID: 5, UnitMaterialCost: 1},
		{ID: 5, UnitMaterialCost: 100},
	}

	result := Compute(JobSpecification{ProductLines: []ProductLine{{ProductID: 5, Quantity: 1}}}, products, nil)

	nearlyEqual(t, "materialCost", result.MaterialCost, 1)
}

func randomProductLines(rng *rand.Rand) []ProductLine {
	n := rng.Intn(5)
	lines := make([]ProductLine, 0, n)
	for j := 0; j < n; j++ {
		lines = append(lines, ProductLine{ProductID: int64(rng.Intn(5) + 1), Quantity: rng.Intn(4) + 1})
	}
	return lines
}
