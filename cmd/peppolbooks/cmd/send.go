package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbilling/peppolbooks/internal/bookkeeping"
	"github.com/openbilling/peppolbooks/internal/logger"
	"github.com/openbilling/peppolbooks/internal/peppol"
	"github.com/openbilling/peppolbooks/internal/store"
)

var sendTimeout time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <draft.json>",
	Short: "Generate an invoice and send it through the access point",
	Long: `Generate a UBL invoice from a draft file and post it to the access
point. The document is sent exactly as generated.

Examples:
  peppolbooks send draft.json --api-key <key>
  peppolbooks send draft.json --endpoint https://api.test.peppyrus.be/`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "Send timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	if cfg.PeppolAPIKey == "" {
		return fmt.Errorf("access point API key required (--api-key or PEPPOL_API_KEY)")
	}

	draft, err := loadDraft(args[0])
	if err != nil {
		return err
	}

	service, closeStore, err := newService()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	status, body, err := service.SendInvoice(ctx, draft)
	if err != nil {
		return err
	}

	fmt.Printf("Status: %d\n", status)
	fmt.Printf("Response: %s\n", body)
	return nil
}

// newService wires the transport and store into a bookkeeping service.
func newService() (*bookkeeping.Service, func(), error) {
	client := peppol.NewClient(cfg.PeppolAPIKey,
		peppol.WithEndpoint(cfg.PeppolEndpoint),
		peppol.WithLogger(logger.WithComponent("peppol")),
	)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	service := bookkeeping.NewService(client, st, logger.WithComponent("bookkeeping"))
	return service, func() { _ = st.Close() }, nil
}
