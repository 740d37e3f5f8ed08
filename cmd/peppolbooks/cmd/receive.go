package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var receiveTimeout time.Duration

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Import inbox invoices into the bookkeeping database",
	Long: `List the access point inbox, extract every invoice document, and book
it: unknown counterparties are created by name, and each invoice becomes a
transaction plus an invoice record.

A single bad message is reported in its result and does not stop the rest of
the inbox.

Examples:
  peppolbooks receive --api-key <key>
  peppolbooks receive --db bookkeeping.db`,
	Args: cobra.NoArgs,
	RunE: runReceive,
}

func init() {
	rootCmd.AddCommand(receiveCmd)

	receiveCmd.Flags().DurationVar(&receiveTimeout, "timeout", 2*time.Minute, "Receive timeout")
}

func runReceive(cmd *cobra.Command, args []string) error {
	if cfg.PeppolAPIKey == "" {
		return fmt.Errorf("access point API key required (--api-key or PEPPOL_API_KEY)")
	}

	service, closeStore, err := newService()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), receiveTimeout)
	defer cancel()

	results, err := service.ReceiveInvoices(ctx)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No invoices received")
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
