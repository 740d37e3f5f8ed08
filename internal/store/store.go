// Package store persists parties, transactions, and imported invoices. The
// codec never touches this package; it is the external bookkeeping
// collaborator behind explicit repository interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/peppolbooks/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Party is a stored party row.
type Party struct {
	ID string
	model.Party
}

// Transaction is one bookkeeping entry. Value is the net amount, VAT the tax
// on top of it.
type Transaction struct {
	ID          string
	Name        string
	FromPartyID string
	ToPartyID   string
	Value       decimal.Decimal
	VAT         decimal.Decimal
	VATRecovery decimal.Decimal
	Currency    string
	Start       time.Time
	Annotation  string
}

// Invoice is a stored invoice record correlating a document with its
// transaction and transport message.
type Invoice struct {
	ID              string
	ExternalID      string
	PeppolMessageID string
	SupplierID      string
	BuyerID         string
	IssueDate       time.Time
	Currency        string
	TotalAmount     decimal.Decimal
	VATAmount       decimal.Decimal
	TransactionID   string
}

// PartyRepository looks parties up by exact display-name match, creating
// them when absent.
type PartyRepository interface {
	FindByName(ctx context.Context, name string) (*Party, error)
	Create(ctx context.Context, p model.Party) (*Party, error)
	FindOrCreateByName(ctx context.Context, name string) (*Party, error)
}

// TransactionRepository records bookkeeping entries.
type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (*Transaction, error)
}

// InvoiceRepository records imported invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv Invoice) (*Invoice, error)
	FindByExternalID(ctx context.Context, externalID string) (*Invoice, error)
}

// Store bundles the repositories over one database.
type Store interface {
	Parties() PartyRepository
	Transactions() TransactionRepository
	Invoices() InvoiceRepository
	Close() error
}
