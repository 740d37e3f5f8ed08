package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/money"
)

const schema = `
CREATE TABLE IF NOT EXISTS parties (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	vat_number   TEXT NOT NULL DEFAULT '',
	peppol_id    TEXT NOT NULL DEFAULT '',
	street       TEXT NOT NULL DEFAULT '',
	city         TEXT NOT NULL DEFAULT '',
	postal_code  TEXT NOT NULL DEFAULT '',
	country_code TEXT NOT NULL DEFAULT 'BE'
);
CREATE INDEX IF NOT EXISTS idx_parties_name ON parties(name);

CREATE TABLE IF NOT EXISTS transactions (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	from_party_id TEXT NOT NULL REFERENCES parties(id),
	to_party_id   TEXT NOT NULL REFERENCES parties(id),
	value         TEXT NOT NULL,
	vat           TEXT NOT NULL DEFAULT '0',
	vat_recovery  TEXT NOT NULL DEFAULT '1',
	currency      TEXT NOT NULL DEFAULT 'EUR',
	start         TEXT NOT NULL,
	annotation    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS invoices (
	id                TEXT PRIMARY KEY,
	external_id       TEXT NOT NULL DEFAULT '',
	peppol_message_id TEXT NOT NULL DEFAULT '',
	supplier_id       TEXT NOT NULL REFERENCES parties(id),
	buyer_id          TEXT NOT NULL REFERENCES parties(id),
	issue_date        TEXT NOT NULL,
	currency          TEXT NOT NULL DEFAULT 'EUR',
	total_amount      TEXT NOT NULL,
	vat_amount        TEXT NOT NULL,
	transaction_id    TEXT NOT NULL REFERENCES transactions(id)
);
`

// SQLiteStore implements Store over a SQLite database file. Monetary amounts
// are persisted as exact decimal strings, never floats.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path. Use ":memory:" for tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// table-lock errors from concurrent importers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Parties() PartyRepository            { return partyRepo{s.db} }
func (s *SQLiteStore) Transactions() TransactionRepository { return transactionRepo{s.db} }
func (s *SQLiteStore) Invoices() InvoiceRepository         { return invoiceRepo{s.db} }

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

type partyRepo struct{ db *sql.DB }

func (r partyRepo) FindByName(ctx context.Context, name string) (*Party, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, vat_number, peppol_id, street, city, postal_code, country_code
		 FROM parties WHERE name = ? LIMIT 1`, name)

	var p Party
	err := row.Scan(&p.ID, &p.Name, &p.VATNumber, &p.PeppolID, &p.Street, &p.City, &p.PostalCode, &p.CountryCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party %q: %w", name, err)
	}
	return &p, nil
}

func (r partyRepo) Create(ctx context.Context, p model.Party) (*Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	stored := &Party{ID: uuid.NewString(), Party: p}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO parties (id, name, vat_number, peppol_id, street, city, postal_code, country_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, p.Name, model.NormalizeVAT(p.VATNumber), p.PeppolID,
		p.Street, p.City, p.PostalCode, p.Country())
	if err != nil {
		return nil, fmt.Errorf("create party %q: %w", p.Name, err)
	}
	return stored, nil
}

func (r partyRepo) FindOrCreateByName(ctx context.Context, name string) (*Party, error) {
	p, err := r.FindByName(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.Create(ctx, model.Party{Name: name})
}

type transactionRepo struct{ db *sql.DB }

func (r transactionRepo) Create(ctx context.Context, t Transaction) (*Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.VATRecovery.IsZero() {
		t.VATRecovery = money.MustExact("1")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, name, from_party_id, to_party_id, value, vat, vat_recovery, currency, start, annotation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.FromPartyID, t.ToPartyID,
		t.Value.String(), t.VAT.String(), t.VATRecovery.String(),
		t.Currency, t.Start.Format(time.RFC3339), t.Annotation)
	if err != nil {
		return nil, fmt.Errorf("create transaction %q: %w", t.Name, err)
	}
	return &t, nil
}

type invoiceRepo struct{ db *sql.DB }

func (r invoiceRepo) Create(ctx context.Context, inv Invoice) (*Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, external_id, peppol_message_id, supplier_id, buyer_id, issue_date, currency, total_amount, vat_amount, transaction_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.ExternalID, inv.PeppolMessageID, inv.SupplierID, inv.BuyerID,
		inv.IssueDate.Format(time.RFC3339), inv.Currency,
		inv.TotalAmount.String(), inv.VATAmount.String(), inv.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("create invoice %q: %w", inv.ExternalID, err)
	}
	return &inv, nil
}

func (r invoiceRepo) FindByExternalID(ctx context.Context, externalID string) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, peppol_message_id, supplier_id, buyer_id, issue_date, currency, total_amount, vat_amount, transaction_id
		 FROM invoices WHERE external_id = ? LIMIT 1`, externalID)

	var inv Invoice
	var issued, total, vat string
	err := row.Scan(&inv.ID, &inv.ExternalID, &inv.PeppolMessageID, &inv.SupplierID, &inv.BuyerID,
		&issued, &inv.Currency, &total, &vat, &inv.TransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice %q: %w", externalID, err)
	}

	if t, err := time.Parse(time.RFC3339, issued); err == nil {
		inv.IssueDate = t
	}
	inv.TotalAmount = money.ParseOrZero(total)
	inv.VATAmount = money.ParseOrZero(vat)
	return &inv, nil
}
