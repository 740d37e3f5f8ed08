// Package bookkeeping orchestrates the send and receive workflows: codec on
// one side, transport and store collaborators on the other.
package bookkeeping

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/peppol"
	"github.com/openbilling/peppolbooks/internal/store"
	"github.com/openbilling/peppolbooks/internal/ubl"
)

// Transport is the access-point client surface the service needs.
type Transport interface {
	Send(ctx context.Context, xmlBytes []byte) (int, string, error)
	ListMessages(ctx context.Context) ([]peppol.Message, error)
	GetMessage(ctx context.Context, id string) (*peppol.MessageDetail, error)
}

// ImportResult reports the outcome of importing one inbox message. A failed
// message carries its error here instead of aborting sibling messages.
type ImportResult struct {
	MessageID     string          `json:"message_id"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Buyer         string          `json:"buyer,omitempty"`
	Date          string          `json:"date,omitempty"`
	Total         decimal.Decimal `json:"total"`
	VAT           decimal.Decimal `json:"vat"`
	TransactionID string          `json:"transaction_id,omitempty"`
	InvoiceDBID   string          `json:"invoice_db_id,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Service wires the codec to the transport and store.
type Service struct {
	transport Transport
	store     store.Store
	log       zerolog.Logger
}

// NewService creates a bookkeeping service.
func NewService(transport Transport, st store.Store, log zerolog.Logger) *Service {
	return &Service{transport: transport, store: st, log: log}
}

// SendInvoice generates a document from the draft and hands the bytes to the
// transport verbatim. A generation failure aborts the whole workflow; nothing
// is sent.
func (s *Service) SendInvoice(ctx context.Context, draft model.InvoiceDraft) (int, string, error) {
	xmlBytes, err := ubl.Generate(draft)
	if err != nil {
		return 0, "", fmt.Errorf("generate invoice %s: %w", draft.InvoiceID, err)
	}

	status, body, err := s.transport.Send(ctx, xmlBytes)
	if err != nil {
		return 0, "", err
	}

	s.log.Info().Str("invoice_id", draft.InvoiceID).Int("status", status).Msg("invoice sent")
	return status, body, nil
}

// ReceiveInvoices lists the inbox and imports every message into the store.
// Each message's failure is isolated in its ImportResult; only a failure to
// list the inbox itself returns an error.
func (s *Service) ReceiveInvoices(ctx context.Context) ([]ImportResult, error) {
	messages, err := s.transport.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ImportResult, 0, len(messages))
	for _, msg := range messages {
		result, err := s.importMessage(ctx, msg)
		if err != nil {
			s.log.Warn().Err(err).Str("message_id", msg.ID).Msg("import failed")
			results = append(results, ImportResult{MessageID: msg.ID, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

func (s *Service) importMessage(ctx context.Context, msg peppol.Message) (*ImportResult, error) {
	detail, err := s.transport.GetMessage(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if detail.Document == "" {
		return nil, fmt.Errorf("message %s: no document found", msg.ID)
	}

	xmlBytes, err := base64.StdEncoding.DecodeString(detail.Document)
	if err != nil {
		return nil, fmt.Errorf("message %s: decode document: %w", msg.ID, err)
	}

	summary, err := ubl.Extract(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	summary.MessageID = msg.ID

	return s.importSummary(ctx, summary)
}

// importSummary books an extracted summary: parties are matched by exact
// display name and created when unknown, then a transaction and an invoice
// row are recorded.
func (s *Service) importSummary(ctx context.Context, summary *model.InvoiceSummary) (*ImportResult, error) {
	supplier, err := s.store.Parties().FindOrCreateByName(ctx, summary.SupplierName)
	if err != nil {
		return nil, fmt.Errorf("resolve supplier: %w", err)
	}
	buyer, err := s.store.Parties().FindOrCreateByName(ctx, summary.BuyerName)
	if err != nil {
		return nil, fmt.Errorf("resolve buyer: %w", err)
	}

	start := parseIssueDate(summary.IssueDate)

	transaction, err := s.store.Transactions().Create(ctx, store.Transaction{
		Name:        "Invoice " + summary.InvoiceID,
		FromPartyID: supplier.ID,
		ToPartyID:   buyer.ID,
		Value:       summary.NetAmount(),
		VAT:         summary.VAT,
		Currency:    summary.CurrencyOrDefault(),
		Start:       start,
		Annotation:  "Imported from Peppol message " + summary.MessageID,
	})
	if err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	invoice, err := s.store.Invoices().Create(ctx, store.Invoice{
		ExternalID:      summary.InvoiceID,
		PeppolMessageID: summary.MessageID,
		SupplierID:      supplier.ID,
		BuyerID:         buyer.ID,
		IssueDate:       start,
		Currency:        summary.CurrencyOrDefault(),
		TotalAmount:     summary.Total,
		VATAmount:       summary.VAT,
		TransactionID:   transaction.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("record invoice: %w", err)
	}

	s.log.Info().
		Str("invoice_id", summary.InvoiceID).
		Str("supplier", summary.SupplierName).
		Str("total", summary.Total.String()).
		Msg("invoice imported")

	return &ImportResult{
		MessageID:     summary.MessageID,
		InvoiceID:     summary.InvoiceID,
		Supplier:      summary.SupplierName,
		Buyer:         summary.BuyerName,
		Date:          summary.IssueDate,
		Total:         summary.Total,
		VAT:           summary.VAT,
		TransactionID: transaction.ID,
		InvoiceDBID:   invoice.ID,
	}, nil
}

func parseIssueDate(raw string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
