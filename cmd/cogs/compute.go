package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Simplici0/printcost/internal/cogs"
	"github.com/Simplici0/printcost/internal/jobfile"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cogs",
		Short:         "Print job cost of goods sold calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newComputeCmd())
	return root
}

func newComputeCmd() *cobra.Command {
	var (
		catalogPath string
		jobPath     string
		strict      bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the cost breakdown of a job file against a catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := jobfile.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			job, err := jobfile.LoadJob(jobPath)
			if err != nil {
				return err
			}

			spec := job.Spec()
			if err := cogs.Validate(spec); err != nil {
				return err
			}
			products, printers := catalog.Refs()
			breakdown, err := cogs.Calculator{Strict: strict}.Compute(spec, products, printers)
			if err != nil {
				return err
			}

			switch output {
			case "json":
				return writeBreakdownJSON(cmd.OutOrStdout(), breakdown)
			case "table":
				return writeBreakdownTable(cmd.OutOrStdout(), job.Title, breakdown)
			default:
				return fmt.Errorf("unsupported output %q (use table or json)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Path to a TOML, YAML, or JSON catalog file")
	cmd.Flags().StringVarP(&jobPath, "job", "j", "", "Path to a TOML, YAML, or JSON job file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject jobs referencing unknown products or printers")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}

func writeBreakdownJSON(w io.Writer, b cogs.CostBreakdown) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"material_cost_eur":      b.MaterialCost,
		"printer_cost_eur":       b.PrinterCost,
		"packaging_cost_eur":     b.PackagingCost,
		"total_print_time_hours": b.TotalPrintTimeHours,
		"total_cost_eur":         b.TotalCost,
		"is_meaningful":          b.IsMeaningful,
	})
}

// writeBreakdownTable rounds to cents for display only.
func writeBreakdownTable(w io.Writer, title string, b cogs.CostBreakdown) error {
	if !b.IsMeaningful {
		_, err := fmt.Fprintln(w, "Nothing to price yet.")
		return err
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Component", "Value"},
		{"Material", fmt.Sprintf("%.2f EUR", b.MaterialCost)},
		{"Printer amortization", fmt.Sprintf("%.2f EUR", b.PrinterCost)},
		{"Packaging", fmt.Sprintf("%.2f EUR", b.PackagingCost)},
		{"Print time", fmt.Sprintf("%.2f h", b.TotalPrintTimeHours)},
		{"Total", fmt.Sprintf("%.2f EUR", b.TotalCost)},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
