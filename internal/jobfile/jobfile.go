// Package jobfile reads catalogs and job specifications from TOML, YAML or
// JSON files for offline costing.
package jobfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/printcost/internal/cogs"
)

// Catalog is the on-disk catalog format.
type Catalog struct {
	Products []Product `json:"products" yaml:"products" toml:"products"`
	Printers []Printer `json:"printers" yaml:"printers" toml:"printers"`
}

// Product is a catalog product with its per-unit material cost and print time.
type Product struct {
	ID             int64   `json:"id" yaml:"id" toml:"id"`
	Name           string  `json:"name" yaml:"name" toml:"name"`
	CopEUR         float64 `json:"cop_eur" yaml:"cop_eur" toml:"cop_eur"`
	PrintTimeHours float64 `json:"print_time_hours" yaml:"print_time_hours" toml:"print_time_hours"`
}

// Printer is a catalog printer with the values its hourly rate derives from.
type Printer struct {
	ID                int64   `json:"id" yaml:"id" toml:"id"`
	Name              string  `json:"name" yaml:"name" toml:"name"`
	PurchasePriceEUR  float64 `json:"purchase_price_eur" yaml:"purchase_price_eur" toml:"purchase_price_eur"`
	ExpectedLifeHours float64 `json:"expected_life_hours" yaml:"expected_life_hours" toml:"expected_life_hours"`
}

// Job is the on-disk job format.
type Job struct {
	Title            string       `json:"title" yaml:"title" toml:"title"`
	Products         []JobProduct `json:"products" yaml:"products" toml:"products"`
	Printers         []JobPrinter `json:"printers" yaml:"printers" toml:"printers"`
	PackagingCostEUR float64      `json:"packaging_cost_eur" yaml:"packaging_cost_eur" toml:"packaging_cost_eur"`
}

// JobProduct is one product line of a job file.
type JobProduct struct {
	ProductID int64    `json:"product_id" yaml:"product_id" toml:"product_id"`
	ItemsQty  Quantity `json:"items_qty" yaml:"items_qty" toml:"items_qty"`
}

// JobPrinter is one printer line of a job file.
type JobPrinter struct {
	PrinterID   int64    `json:"printer_id" yaml:"printer_id" toml:"printer_id"`
	PrintersQty Quantity `json:"printers_qty" yaml:"printers_qty" toml:"printers_qty"`
}

// Quantity is a line quantity. Fractional values are rejected in every format.
type Quantity int

// UnmarshalYAML accepts only integer scalars.
func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!int" {
		return fmt.Errorf("line %d: quantity must be a whole number, got %q", value.Line, value.Value)
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return err
	}
	*q = Quantity(n)
	return nil
}

// Refs converts the catalog into calculator references.
func (c Catalog) Refs() ([]cogs.ProductRef, []cogs.PrinterRef) {
	products := make([]cogs.ProductRef, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, cogs.ProductRef{ID: p.ID, UnitMaterialCost: p.CopEUR, UnitPrintTimeHours: p.PrintTimeHours})
	}
	printers := make([]cogs.PrinterRef, 0, len(c.Printers))
	for _, p := range c.Printers {
		printers = append(printers, cogs.PrinterRef{ID: p.ID, PurchasePrice: p.PurchasePriceEUR, ExpectedLifetimeHours: p.ExpectedLifeHours})
	}
	return products, printers
}

// Spec converts the job into a calculator specification.
func (j Job) Spec() cogs.JobSpecification {
	spec := cogs.JobSpecification{PackagingCost: j.PackagingCostEUR}
	for _, p := range j.Products {
		spec.ProductLines = append(spec.ProductLines, cogs.ProductLine{ProductID: p.ProductID, Quantity: int(p.ItemsQty)})
	}
	for _, p := range j.Printers {
		spec.PrinterLines = append(spec.PrinterLines, cogs.PrinterLine{PrinterID: p.PrinterID, Quantity: int(p.PrintersQty)})
	}
	return spec
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (Catalog, error) {
	var c Catalog
	if err := load(path, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadJob reads a job file.
func LoadJob(path string) (Job, error) {
	var j Job
	if err := load(path, &j); err != nil {
		return Job{}, err
	}
	return j, nil
}

func load(path string, dst any) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
	return nil
}
