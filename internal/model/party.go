// Package model defines the value types shared by the invoice codec and the
// bookkeeping layers: parties, line items, drafts, and extracted summaries.
package model

import "strings"

// Party is a legal entity able to send or receive invoices.
type Party struct {
	// Name is the display name used in party blocks and for
	// lookup-or-create matching on import. Required.
	Name string `json:"name"`

	// VATNumber is the tax identifier, free-form. Canonicalize with
	// NormalizeVAT before use.
	VATNumber string `json:"vat_number,omitempty"`

	// PeppolID identifies the network endpoint, "<scheme>:<identifier>",
	// e.g. "0208:0123456789".
	PeppolID string `json:"peppol_id,omitempty"`

	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	// CountryCode is the ISO 3166-1 alpha-2 code, defaulting to "BE".
	CountryCode string `json:"country_code,omitempty"`
}

// NormalizeVAT strips spaces and dots from a VAT identifier
// ("BE 0123.456.789" -> "BE0123456789").
func NormalizeVAT(vat string) string {
	vat = strings.ReplaceAll(vat, " ", "")
	return strings.ReplaceAll(vat, ".", "")
}

// EndpointScheme returns the scheme segment of the Peppol identifier, the
// substring before the first colon. Empty when no Peppol id is set.
func (p Party) EndpointScheme() string {
	if p.PeppolID == "" {
		return ""
	}
	scheme, _, _ := strings.Cut(p.PeppolID, ":")
	return scheme
}

// Country returns the country code, defaulting to "BE".
func (p Party) Country() string {
	if p.CountryCode == "" {
		return "BE"
	}
	return p.CountryCode
}

// Validate checks party invariants.
func (p Party) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", nil, "party name is required")
	}
	if p.PeppolID != "" && p.EndpointScheme() == "" {
		return NewValidationError("peppol_id", p.PeppolID, "scheme segment before ':' must be non-empty")
	}
	return nil
}
