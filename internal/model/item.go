package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openbilling/peppolbooks/internal/money"
)

// LineItem is one billable row with validated numeric fields.
type LineItem struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`

	// VATRate is a fraction, e.g. 0.21 for 21%.
	VATRate decimal.Decimal `json:"vat_rate"`
}

// DisplayName returns the name used in the document: name, else description,
// else a positional fallback. idx is 1-based.
func (li LineItem) DisplayName(idx int) string {
	if li.Name != "" {
		return li.Name
	}
	if li.Description != "" {
		return li.Description
	}
	return fmt.Sprintf("Item %d", idx)
}

// EffectiveVATRate returns the VAT rate with negative values clamped to zero.
func (li LineItem) EffectiveVATRate() decimal.Decimal {
	return money.ClampNonNegative(li.VATRate)
}

// RoundedUnitPrice returns the unit price rounded to 2 places half away from
// zero, as used for line totals and the PriceAmount element.
func (li LineItem) RoundedUnitPrice() decimal.Decimal {
	return money.Round2(li.UnitPrice)
}

// Total computes the line extension amount:
// round2(quantity x round2(unit_price)).
func (li LineItem) Total() decimal.Decimal {
	return money.Round2(li.Quantity.Mul(li.RoundedUnitPrice()))
}

// Numeric is a boundary field accepting a JSON number or a numeric string.
// The textual form is kept verbatim so decimal values never pass through a
// float.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*n = Numeric(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = Numeric(s)
	return nil
}

func (n Numeric) String() string { return string(n) }

// LineItemInput is the loose boundary record accepted from JSON. Numeric
// fields arrive as JSON numbers or strings and are validated before any
// document construction begins.
type LineItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    Numeric `json:"quantity"`
	UnitPrice   Numeric `json:"unit_price"`
	VATPct      Numeric `json:"vat_pct"`
}

// ParseLineItem validates a loose input record into a LineItem. A missing
// numeric field defaults to zero; a non-numeric one fails.
func ParseLineItem(in LineItemInput) (LineItem, error) {
	item := LineItem{
		Name:        in.Name,
		Description: in.Description,
	}

	var err error
	if item.Quantity, err = parseNumber("quantity", in.Quantity); err != nil {
		return LineItem{}, err
	}
	if item.UnitPrice, err = parseNumber("unit_price", in.UnitPrice); err != nil {
		return LineItem{}, err
	}
	if item.VATRate, err = parseNumber("vat_pct", in.VATPct); err != nil {
		return LineItem{}, err
	}
	if item.Quantity.IsNegative() {
		return LineItem{}, NewValidationError("quantity", in.Quantity.String(), "must not be negative")
	}

	return item, nil
}

// ParseLineItems validates a slice of loose input records, failing on the
// first malformed one.
func ParseLineItems(inputs []LineItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := ParseLineItem(in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseNumber(field string, n Numeric) (decimal.Decimal, error) {
	if n == "" {
		return money.Zero, nil
	}
	d, err := money.Exact(n.String())
	if err != nil {
		return money.Zero, NewValidationError(field, n.String(), "not a valid number")
	}
	return d, nil
}
