package model

import "time"

// DefaultPaymentTermDays is added to the issue date when no due date is
// supplied.
const DefaultPaymentTermDays = 30

// InvoiceDraft is the validated input to invoice generation.
type InvoiceDraft struct {
	Supplier Party      `json:"supplier"`
	Buyer    Party      `json:"buyer"`
	Items    []LineItem `json:"items"`

	// InvoiceID is caller-supplied and must be unique per sender on the
	// network; uniqueness is not validated here.
	InvoiceID string    `json:"invoice_id"`
	IssueDate time.Time `json:"issue_date"`

	// DueDate is optional; zero means issue date + 30 calendar days.
	DueDate time.Time `json:"due_date,omitempty"`

	// Currency is informational only. Generated monetary elements are
	// fixed to EUR; see the extractor's currency default.
	Currency string `json:"currency,omitempty"`
}

// DraftInput is the loose boundary record for a draft, as read from JSON
// files or request bodies. Dates are YYYY-MM-DD strings; item numerics are
// validated by ParseDraft before any document construction.
type DraftInput struct {
	Supplier  Party           `json:"supplier"`
	Buyer     Party           `json:"buyer"`
	Items     []LineItemInput `json:"items"`
	InvoiceID string          `json:"invoice_id"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date,omitempty"`
	Currency  string          `json:"currency,omitempty"`
}

// ParseDraft validates a loose draft into an InvoiceDraft. The issue date
// defaults to today when absent.
func ParseDraft(in DraftInput) (InvoiceDraft, error) {
	draft := InvoiceDraft{
		Supplier:  in.Supplier,
		Buyer:     in.Buyer,
		InvoiceID: in.InvoiceID,
		Currency:  in.Currency,
	}

	items, err := ParseLineItems(in.Items)
	if err != nil {
		return InvoiceDraft{}, err
	}
	draft.Items = items

	if in.IssueDate == "" {
		draft.IssueDate = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		issued, err := time.Parse("2006-01-02", in.IssueDate)
		if err != nil {
			return InvoiceDraft{}, NewValidationError("issue_date", in.IssueDate, "expected YYYY-MM-DD")
		}
		draft.IssueDate = issued
	}

	if in.DueDate != "" {
		due, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return InvoiceDraft{}, NewValidationError("due_date", in.DueDate, "expected YYYY-MM-DD")
		}
		draft.DueDate = due
	}

	return draft, nil
}

// EffectiveDueDate returns the due date, defaulting to issue + 30 days.
func (d InvoiceDraft) EffectiveDueDate() time.Time {
	if d.DueDate.IsZero() {
		return d.IssueDate.AddDate(0, 0, DefaultPaymentTermDays)
	}
	return d.DueDate
}

// Validate checks draft invariants. An empty item list is allowed and
// produces a zero-total document.
func (d InvoiceDraft) Validate() error {
	if d.InvoiceID == "" {
		return NewValidationError("invoice_id", nil, "invoice id is required")
	}
	if err := d.Supplier.Validate(); err != nil {
		return err
	}
	return d.Buyer.Validate()
}
