package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/ubl"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate <draft.json>",
	Short: "Generate a UBL invoice document from a draft file",
	Long: `Generate an EN16931 / Peppol BIS Billing 3.0 UBL invoice from a JSON
draft.

The draft file holds supplier, buyer, items, invoice_id, and issue_date:

  {
    "supplier": {"name": "Acme BV", "vat_number": "BE0123456789",
                 "peppol_id": "0208:0123456789"},
    "buyer":    {"name": "Client NV"},
    "invoice_id": "INV-2026-001",
    "issue_date": "2026-08-30",
    "items": [
      {"name": "Consulting", "quantity": 2, "unit_price": 650, "vat_pct": 0.21}
    ]
  }

When the supplier block is omitted, the configured sender identity is used.

Examples:
  peppolbooks generate draft.json
  peppolbooks generate draft.json -o invoice.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	draft, err := loadDraft(args[0])
	if err != nil {
		return err
	}

	xmlBytes, err := ubl.Generate(draft)
	if err != nil {
		return err
	}

	if generateOutput == "" {
		_, err = os.Stdout.Write(xmlBytes)
		return err
	}
	if err := os.WriteFile(generateOutput, xmlBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", generateOutput, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", generateOutput, len(xmlBytes))
	return nil
}

// loadDraft reads and validates a draft file, filling the supplier from the
// configured sender identity when the file leaves it out.
func loadDraft(path string) (model.InvoiceDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.InvoiceDraft{}, fmt.Errorf("read draft: %w", err)
	}

	var input model.DraftInput
	if err := json.Unmarshal(data, &input); err != nil {
		return model.InvoiceDraft{}, fmt.Errorf("decode draft %s: %w", path, err)
	}

	if input.Supplier.Name == "" {
		input.Supplier = cfg.SenderParty()
	}

	return model.ParseDraft(input)
}
