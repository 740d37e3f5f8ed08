// Package peppollib provides the public API for the Peppol invoice codec.
//
// It exposes the core types for building EN16931 / Peppol BIS Billing 3.0
// UBL invoices and for extracting normalized summaries from received ones.
//
// Example usage:
//
//	xmlBytes, err := peppollib.Generate(draft)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := peppollib.Extract(xmlBytes)
package peppollib

import (
	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/ubl"
)

// Re-export core types for public API
type (
	Party          = model.Party
	LineItem       = model.LineItem
	LineItemInput  = model.LineItemInput
	InvoiceDraft   = model.InvoiceDraft
	DraftInput     = model.DraftInput
	InvoiceSummary = model.InvoiceSummary
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	ParseError      = model.ParseError
)

// Re-export document constants
const (
	CustomizationID = ubl.CustomizationID
	ProfileID       = ubl.ProfileID
)

// Generate builds a Peppol BIS Billing 3.0 invoice document from a draft.
func Generate(draft InvoiceDraft) ([]byte, error) {
	return ubl.Generate(draft)
}

// Extract reads a received UBL invoice document into a normalized summary.
func Extract(xmlBytes []byte) (*InvoiceSummary, error) {
	return ubl.Extract(xmlBytes)
}

// ParseDraft validates a loose draft record into an InvoiceDraft.
func ParseDraft(in DraftInput) (InvoiceDraft, error) {
	return model.ParseDraft(in)
}
