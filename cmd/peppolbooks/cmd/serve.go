package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbilling/peppolbooks/internal/bookkeeping"
	"github.com/openbilling/peppolbooks/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for the invoice codec and workflows.

Endpoints:
  - POST /api/v1/invoices/generate - Draft JSON to UBL XML
  - POST /api/v1/invoices/extract  - UBL XML to summary JSON
  - POST /api/v1/invoices/send     - Generate and send a draft
  - POST /api/v1/invoices/receive  - Import the access point inbox
  - GET  /health                   - Health check

Examples:
  # Start server on default port
  peppolbooks serve

  # Start on custom port with API key
  peppolbooks serve --address :8080 --api-key <key>

  # Start in debug mode
  peppolbooks serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Send/receive need the access point; the codec endpoints do not.
	var service *bookkeeping.Service
	if cfg.PeppolAPIKey != "" {
		svc, closeStore, err := newService()
		if err != nil {
			return err
		}
		defer closeStore()
		service = svc
	}

	config := &server.Config{
		Address:      serverAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv := server.NewServer(config, service)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if cfg.PeppolAPIKey != "" {
		fmt.Println("Access point transport enabled")
	} else {
		fmt.Println("Access point transport disabled (no API key)")
	}

	return srv.Run()
}
