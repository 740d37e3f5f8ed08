package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/ubl"
)

var extractFormat string

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract normalized summaries from UBL invoice documents",
	Long: `Read one or more UBL invoice files and print the normalized summary:
invoice id, issue date, currency, party names, payable total, and VAT total.

Missing optional fields come back empty or zero; files that are not
well-formed XML are reported per file without aborting the rest.

Examples:
  peppolbooks extract invoice.xml
  peppolbooks extract inbox/*.xml -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "Output format (json, table)")
}

type extractResult struct {
	File    string                `json:"file"`
	Summary *model.InvoiceSummary `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	results := make([]extractResult, 0, len(args))
	for _, file := range args {
		results = append(results, extractFile(file))
	}

	switch extractFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "table":
		return printExtractTable(results)
	default:
		return fmt.Errorf("unsupported output format: %s", extractFormat)
	}
}

func extractFile(path string) extractResult {
	result := extractResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	summary, err := ubl.Extract(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Summary = summary
	return result
}

func printExtractTable(results []extractResult) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tINVOICE\tDATE\tSUPPLIER\tBUYER\tTOTAL\tVAT")
	fmt.Fprintln(tw, "----\t-------\t----\t--------\t-----\t-----\t---")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}
		s := r.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.File, s.InvoiceID, s.IssueDate, s.SupplierName, s.BuyerName,
			s.Total.StringFixed(2), s.VAT.StringFixed(2))
	}
	return tw.Flush()
}
