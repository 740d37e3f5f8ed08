// Package config loads process configuration from the environment, with an
// optional .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/peppol"
)

// Config holds everything the CLI and server need to run.
type Config struct {
	// Access point
	PeppolAPIKey   string
	PeppolEndpoint string
	SenderPeppolID string

	// Sender (supplier) identity used for generated invoices
	SenderCompany     string
	SenderVAT         string
	SenderStreet      string
	SenderCity        string
	SenderPostal      string
	SenderCountryCode string

	// Bookkeeping database
	DBPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		PeppolAPIKey:      getEnv("PEPPOL_API_KEY", ""),
		PeppolEndpoint:    getEnv("PEPPOL_ENDPOINT", peppol.DefaultEndpoint),
		SenderPeppolID:    getEnv("PEPPOL_SENDER_ID", ""),
		SenderCompany:     getEnv("SENDER_COMPANY", "Example Supplier"),
		SenderVAT:         model.NormalizeVAT(getEnv("SENDER_VAT", "BE0123456789")),
		SenderStreet:      getEnv("SENDER_STREET", "Example Street 1"),
		SenderCity:        getEnv("SENDER_CITY", "Example City"),
		SenderPostal:      getEnv("SENDER_POSTAL", "1000"),
		SenderCountryCode: getEnv("SENDER_COUNTRY_CODE", "BE"),
		DBPath:            getEnv("DB_PATH", "bookkeeping.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}
}

// SenderParty builds the configured supplier as a codec party.
func (c *Config) SenderParty() model.Party {
	return model.Party{
		Name:        c.SenderCompany,
		VATNumber:   c.SenderVAT,
		PeppolID:    c.SenderPeppolID,
		Street:      c.SenderStreet,
		City:        c.SenderCity,
		PostalCode:  c.SenderPostal,
		CountryCode: c.SenderCountryCode,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
