package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbilling/peppolbooks/internal/model"
)

func TestNormalizeVAT(t *testing.T) {
	assert.Equal(t, "BE0123456789", model.NormalizeVAT("BE 0123.456.789"))
	assert.Equal(t, "BE0123456789", model.NormalizeVAT("BE0123456789"))
	assert.Equal(t, "", model.NormalizeVAT(""))
}

func TestParty_EndpointScheme(t *testing.T) {
	p := model.Party{Name: "Acme", PeppolID: "0208:0123456789"}
	assert.Equal(t, "0208", p.EndpointScheme())

	assert.Equal(t, "", model.Party{Name: "Acme"}.EndpointScheme())
}

func TestParty_Country_Default(t *testing.T) {
	assert.Equal(t, "BE", model.Party{Name: "Acme"}.Country())
	assert.Equal(t, "NL", model.Party{Name: "Acme", CountryCode: "NL"}.Country())
}

func TestParty_Validate(t *testing.T) {
	require.NoError(t, model.Party{Name: "Acme"}.Validate())

	err := model.Party{}.Validate()
	require.Error(t, err)
	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "name", valErr.Field)

	// Peppol id with empty scheme segment is rejected
	err = model.Party{Name: "Acme", PeppolID: ":0123456789"}.Validate()
	require.Error(t, err)
}

func TestLineItem_DisplayName(t *testing.T) {
	item := model.LineItem{Name: "Widget", Description: "A widget"}
	assert.Equal(t, "Widget", item.DisplayName(1))

	item = model.LineItem{Description: "A widget"}
	assert.Equal(t, "A widget", item.DisplayName(1))

	item = model.LineItem{}
	assert.Equal(t, "Item 3", item.DisplayName(3))
}

func TestLineItem_Total(t *testing.T) {
	// line total = round2(quantity * round2(unit_price))
	item := model.LineItem{
		Quantity:  decimal.RequireFromString("3"),
		UnitPrice: decimal.RequireFromString("9.995"),
	}
	// 9.995 rounds to 10.00 first, then 3 * 10.00 = 30.00
	assert.Equal(t, "30.00", item.Total().StringFixed(2))

	item = model.LineItem{
		Quantity:  decimal.RequireFromString("0.5"),
		UnitPrice: decimal.RequireFromString("0.03"),
	}
	// 0.5 * 0.03 = 0.015 -> 0.02 half away from zero
	assert.Equal(t, "0.02", item.Total().StringFixed(2))
}

func TestLineItem_EffectiveVATRate_Clamped(t *testing.T) {
	item := model.LineItem{VATRate: decimal.RequireFromString("-0.21")}
	assert.True(t, item.EffectiveVATRate().IsZero())

	item = model.LineItem{VATRate: decimal.RequireFromString("0.21")}
	assert.Equal(t, "0.21", item.EffectiveVATRate().String())
}

func TestParseLineItem(t *testing.T) {
	item, err := model.ParseLineItem(model.LineItemInput{
		Name:      "Test product",
		Quantity:  "1",
		UnitPrice: "10",
		VATPct:    "0.21",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test product", item.Name)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.VATRate.Equal(decimal.RequireFromString("0.21")))
}

func TestParseLineItem_MissingNumericsDefaultToZero(t *testing.T) {
	item, err := model.ParseLineItem(model.LineItemInput{Name: "Freebie"})
	require.NoError(t, err)
	assert.True(t, item.Quantity.IsZero())
	assert.True(t, item.UnitPrice.IsZero())
	assert.True(t, item.VATRate.IsZero())
}

func TestParseLineItem_NonNumericFails(t *testing.T) {
	_, err := model.ParseLineItem(model.LineItemInput{Quantity: "many"})
	require.Error(t, err)
	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "quantity", valErr.Field)

	_, err = model.ParseLineItem(model.LineItemInput{UnitPrice: "cheap"})
	require.Error(t, err)

	_, err = model.ParseLineItem(model.LineItemInput{VATPct: "lots"})
	require.Error(t, err)
}

func TestParseLineItem_NegativeQuantityRejected(t *testing.T) {
	_, err := model.ParseLineItem(model.LineItemInput{Quantity: "-1"})
	require.Error(t, err)
}

func TestLineItemInput_NumberOrString(t *testing.T) {
	var in model.LineItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 2, "unit_price": "49.99", "vat_pct": 0.21}`), &in))

	item, err := model.ParseLineItem(in)
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("49.99")))
	assert.True(t, item.VATRate.Equal(decimal.RequireFromString("0.21")))

	require.Error(t, json.Unmarshal([]byte(`{"quantity": true}`), &in))
}

func TestParseLineItems_ReportsPosition(t *testing.T) {
	_, err := model.ParseLineItems([]model.LineItemInput{
		{Quantity: "1", UnitPrice: "10"},
		{Quantity: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 2")
}

func TestInvoiceDraft_EffectiveDueDate(t *testing.T) {
	issued := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	draft := model.InvoiceDraft{IssueDate: issued}
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), draft.EffectiveDueDate())

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	draft.DueDate = due
	assert.Equal(t, due, draft.EffectiveDueDate())
}

func TestInvoiceDraft_Validate(t *testing.T) {
	draft := model.InvoiceDraft{
		Supplier:  model.Party{Name: "Supplier"},
		Buyer:     model.Party{Name: "Buyer"},
		InvoiceID: "INV-1",
	}
	require.NoError(t, draft.Validate())

	draft.InvoiceID = ""
	require.Error(t, draft.Validate())

	draft.InvoiceID = "INV-1"
	draft.Buyer.Name = ""
	require.Error(t, draft.Validate())
}

func TestParseDraft(t *testing.T) {
	draft, err := model.ParseDraft(model.DraftInput{
		Supplier:  model.Party{Name: "Supplier"},
		Buyer:     model.Party{Name: "Buyer"},
		InvoiceID: "INV-1",
		IssueDate: "2026-01-15",
		DueDate:   "2026-02-01",
		Items: []model.LineItemInput{
			{Name: "Thing", Quantity: "2", UnitPrice: "5", VATPct: "0.21"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-1", draft.InvoiceID)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), draft.IssueDate)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), draft.DueDate)
	require.Len(t, draft.Items, 1)
}

func TestParseDraft_BadDates(t *testing.T) {
	_, err := model.ParseDraft(model.DraftInput{InvoiceID: "INV-1", IssueDate: "15/01/2026"})
	require.Error(t, err)

	_, err = model.ParseDraft(model.DraftInput{InvoiceID: "INV-1", DueDate: "soon"})
	require.Error(t, err)
}

func TestInvoiceSummary_Defaults(t *testing.T) {
	s := model.InvoiceSummary{}
	assert.Equal(t, "EUR", s.CurrencyOrDefault())

	s.Currency = "SEK"
	assert.Equal(t, "SEK", s.CurrencyOrDefault())

	s.Total = decimal.RequireFromString("121.00")
	s.VAT = decimal.RequireFromString("21.00")
	assert.Equal(t, "100.00", s.NetAmount().StringFixed(2))
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("quantity", "abc", "not a valid number")
	require.Contains(t, err.Error(), "quantity")
	require.Contains(t, err.Error(), "abc")
}

func TestParseError_WithCause(t *testing.T) {
	cause := assert.AnError
	err := model.NewParseError("document", "not well-formed XML", cause)

	require.Contains(t, err.Error(), "document")
	require.ErrorIs(t, err, cause)
}

func TestTransportError(t *testing.T) {
	err := model.NewTransportError("list", 500, "boom")
	require.Contains(t, err.Error(), "list")
	require.Contains(t, err.Error(), "500")
}
