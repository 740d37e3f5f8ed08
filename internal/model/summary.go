package model

import "github.com/shopspring/decimal"

// InvoiceSummary is the normalized result of extracting a received UBL
// document. Missing optional fields are empty strings or zero, never errors.
type InvoiceSummary struct {
	InvoiceID string `json:"invoice_id"`

	// IssueDate is the raw string as found in the document, ISO-8601
	// expected.
	IssueDate string `json:"issue_date"`

	Currency     string `json:"currency"`
	SupplierName string `json:"supplier"`
	BuyerName    string `json:"buyer"`

	// Total is the legal monetary total's payable amount.
	Total decimal.Decimal `json:"total"`

	// VAT is the sum across all tax subtotal amounts found.
	VAT decimal.Decimal `json:"vat"`

	// MessageID correlates the summary back to the transport message it
	// was read from. Set by the receiving layer, not the extractor.
	MessageID string `json:"message_id,omitempty"`
}

// CurrencyOrDefault returns the document currency, defaulting to EUR.
func (s InvoiceSummary) CurrencyOrDefault() string {
	if s.Currency == "" {
		return "EUR"
	}
	return s.Currency
}

// NetAmount returns the total minus VAT, the value booked on the imported
// transaction.
func (s InvoiceSummary) NetAmount() decimal.Decimal {
	return s.Total.Sub(s.VAT)
}
