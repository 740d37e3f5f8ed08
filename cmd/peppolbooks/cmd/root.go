package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openbilling/peppolbooks/internal/config"
	"github.com/openbilling/peppolbooks/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose  bool
	apiKey   string
	endpoint string
	dbPath   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "peppolbooks",
	Short: "Peppol invoicing and bookkeeping for small companies",
	Long: `Peppolbooks generates, sends, receives, and books EN16931 / Peppol
BIS Billing 3.0 UBL invoices.

Examples:
  # Generate an invoice document from a draft file
  peppolbooks generate draft.json -o invoice.xml

  # Extract a summary from a received document
  peppolbooks extract invoice.xml

  # Send a draft through the access point
  peppolbooks send draft.json --api-key <key>

  # Import the inbox into the bookkeeping database
  peppolbooks receive --api-key <key>

  # Start the HTTP API
  peppolbooks serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Access point API key (env: PEPPOL_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Access point base URL (env: PEPPOL_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Bookkeeping database path (env: DB_PATH)")

	cobra.OnInitialize(initConfig)
}

// initConfig loads env/.env configuration; flags win over environment.
func initConfig() {
	cfg = config.Load()
	if apiKey != "" {
		cfg.PeppolAPIKey = apiKey
	}
	if endpoint != "" {
		cfg.PeppolEndpoint = endpoint
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
}
