package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbilling/peppolbooks/internal/config"
	"github.com/openbilling/peppolbooks/internal/peppol"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, peppol.DefaultEndpoint, cfg.PeppolEndpoint)
	assert.Equal(t, "bookkeeping.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PEPPOL_API_KEY", "secret")
	t.Setenv("PEPPOL_ENDPOINT", "https://api.example.test/")
	t.Setenv("SENDER_COMPANY", "Acme NV")
	t.Setenv("SENDER_VAT", "BE 0123.456.789")

	cfg := config.Load()

	assert.Equal(t, "secret", cfg.PeppolAPIKey)
	assert.Equal(t, "https://api.example.test/", cfg.PeppolEndpoint)
	assert.Equal(t, "Acme NV", cfg.SenderCompany)
	// VAT number is canonicalized at load time
	assert.Equal(t, "BE0123456789", cfg.SenderVAT)
}

func TestSenderParty(t *testing.T) {
	t.Setenv("SENDER_COMPANY", "Acme NV")
	t.Setenv("PEPPOL_SENDER_ID", "0208:0123456789")

	party := config.Load().SenderParty()
	require.NoError(t, party.Validate())

	assert.Equal(t, "Acme NV", party.Name)
	assert.Equal(t, "0208:0123456789", party.PeppolID)
	assert.Equal(t, "0208", party.EndpointScheme())
}
