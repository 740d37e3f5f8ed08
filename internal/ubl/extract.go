package ubl

import (
	"encoding/xml"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/money"
)

// Wire structs for extraction. Fields are matched by namespace URI so any
// prefix binding a sender chose still resolves; documents missing a node
// simply leave the zero value behind.
type wireInvoice struct {
	XMLName              xml.Name
	ID                   string            `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 ID"`
	IssueDate            string            `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 IssueDate"`
	DocumentCurrencyCode string            `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 DocumentCurrencyCode"`
	SupplierParty        wirePartyWrapper  `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 AccountingSupplierParty"`
	CustomerParty        wirePartyWrapper  `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 AccountingCustomerParty"`
	TaxTotals            []wireTaxTotal    `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 TaxTotal"`
	LegalMonetaryTotal   wireMonetaryTotal `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 LegalMonetaryTotal"`
	InvoiceLines         []wireInvoiceLine `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 InvoiceLine"`
}

type wireInvoiceLine struct {
	TaxTotals []wireTaxTotal `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 TaxTotal"`
}

type wirePartyWrapper struct {
	Party wireParty `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 Party"`
}

type wireParty struct {
	PartyName wirePartyName `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 PartyName"`
}

type wirePartyName struct {
	Name string `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 Name"`
}

type wireTaxTotal struct {
	Subtotals []wireTaxSubtotal `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2 TaxSubtotal"`
}

type wireTaxSubtotal struct {
	TaxAmount string `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 TaxAmount"`
}

type wireMonetaryTotal struct {
	PayableAmount string `xml:"urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2 PayableAmount"`
}

// Extract reads a received UBL invoice document into a normalized summary.
//
// Bytes that are not well-formed XML fail with a *model.ParseError. Beyond
// well-formedness the extraction is best-effort: absent or unparsable fields
// degrade to empty strings or zero, and each tax subtotal amount is parsed
// independently so one bad node never discards the rest of the document.
func Extract(xmlBytes []byte) (*model.InvoiceSummary, error) {
	var doc wireInvoice
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		return nil, model.NewParseError("document", "not well-formed XML", err)
	}

	summary := &model.InvoiceSummary{
		InvoiceID:    doc.ID,
		IssueDate:    doc.IssueDate,
		Currency:     doc.DocumentCurrencyCode,
		SupplierName: doc.SupplierParty.Party.PartyName.Name,
		BuyerName:    doc.CustomerParty.Party.PartyName.Name,
		Total:        money.ParseOrZero(doc.LegalMonetaryTotal.PayableAmount),
	}

	// VAT is the sum of every tax subtotal amount anywhere in the document,
	// including per-line tax totals.
	vat := money.Zero
	totals := doc.TaxTotals
	for _, line := range doc.InvoiceLines {
		totals = append(totals, line.TaxTotals...)
	}
	for _, tt := range totals {
		for _, st := range tt.Subtotals {
			vat = vat.Add(money.ParseOrZero(st.TaxAmount))
		}
	}
	summary.VAT = vat

	return summary, nil
}
