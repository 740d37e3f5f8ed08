package ubl

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/money"
)

// vatGroup accumulates the taxable base and tax amount for one VAT rate.
// Accumulation is exact; rounding happens only when amounts are written out.
type vatGroup struct {
	rate    decimal.Decimal
	taxable decimal.Decimal
	tax     decimal.Decimal
}

// Generate builds a Peppol BIS Billing 3.0 invoice document from a draft.
//
// All monetary elements carry currencyID="EUR" regardless of the draft's
// informational currency field. Tax subtotals are emitted in ascending rate
// order; this ordering is a codec-level guarantee.
func Generate(draft model.InvoiceDraft) ([]byte, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NamespaceInvoice)
	root.CreateAttr("xmlns:cbc", NamespaceCBC)
	root.CreateAttr("xmlns:cac", NamespaceCAC)

	dueDate := draft.EffectiveDueDate()

	// Header
	text(root, "cbc:CustomizationID", CustomizationID)
	text(root, "cbc:ProfileID", ProfileID)
	text(root, "cbc:ID", draft.InvoiceID)
	text(root, "cbc:IssueDate", draft.IssueDate.Format(dateLayout))
	text(root, "cbc:InvoiceTypeCode", invoiceTypeCode)
	text(root, "cbc:DocumentCurrencyCode", documentCurrency)
	text(root, "cbc:LineCountNumeric", strconv.Itoa(len(draft.Items)))
	text(root, "cbc:BuyerReference", draft.Buyer.Name)

	addSupplierParty(root, draft.Supplier)
	addCustomerParty(root, draft.Buyer)

	groups, totalNet, totalTax := computeTotals(draft.Items)

	// TaxTotal with one subtotal per distinct rate
	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", totalTax)
	for _, g := range groups {
		subtotal := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(subtotal, "cbc:TaxableAmount", g.taxable)
		amount(subtotal, "cbc:TaxAmount", g.tax)

		category := subtotal.CreateElement("cac:TaxCategory")
		text(category, "cbc:ID", taxCategoryStandard)
		text(category, "cbc:Percent", money.FormatPercent(g.rate))
		scheme := category.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", taxSchemeVAT)
	}

	// Payment terms as free text (BT-9 via Note)
	terms := root.CreateElement("cac:PaymentTerms")
	text(terms, "cbc:Note", "Payment due by "+dueDate.Format(dateLayout))

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	amount(monetary, "cbc:LineExtensionAmount", totalNet)
	amount(monetary, "cbc:TaxExclusiveAmount", totalNet)
	amount(monetary, "cbc:TaxInclusiveAmount", totalNet.Add(totalTax))
	amount(monetary, "cbc:PayableAmount", totalNet.Add(totalTax))

	for idx, item := range draft.Items {
		addInvoiceLine(root, idx+1, item)
	}

	// Payment means closes the document
	means := root.CreateElement("cac:PaymentMeans")
	text(means, "cbc:PaymentMeansCode", paymentMeansCode)
	text(means, "cbc:PaymentDueDate", dueDate.Format(dateLayout))

	doc.Indent(2)
	return doc.WriteToBytes()
}

func addSupplierParty(root *etree.Element, supplier model.Party) {
	wrapper := root.CreateElement("cac:AccountingSupplierParty")
	party := wrapper.CreateElement("cac:Party")

	if supplier.PeppolID != "" {
		endpoint := party.CreateElement("cbc:EndpointID")
		endpoint.CreateAttr("schemeID", supplier.EndpointScheme())
		endpoint.SetText(supplier.PeppolID)
	}

	vat := model.NormalizeVAT(supplier.VATNumber)

	ident := party.CreateElement("cac:PartyIdentification")
	identID := ident.CreateElement("cbc:ID")
	identID.CreateAttr("schemeID", enterpriseNumberScheme)
	if vat != "" {
		identID.SetText(vat)
	} else {
		identID.SetText(fallbackEnterpriseID)
	}

	name := party.CreateElement("cac:PartyName")
	text(name, "cbc:Name", supplier.Name)

	addPostalAddress(party, supplier)

	taxScheme := party.CreateElement("cac:PartyTaxScheme")
	text(taxScheme, "cbc:CompanyID", vat)
	scheme := taxScheme.CreateElement("cac:TaxScheme")
	text(scheme, "cbc:ID", taxSchemeVAT)

	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", supplier.Name)
}

func addCustomerParty(root *etree.Element, buyer model.Party) {
	wrapper := root.CreateElement("cac:AccountingCustomerParty")
	party := wrapper.CreateElement("cac:Party")

	if buyer.PeppolID != "" {
		endpoint := party.CreateElement("cbc:EndpointID")
		endpoint.CreateAttr("schemeID", buyer.EndpointScheme())
		endpoint.SetText(buyer.PeppolID)
	}

	name := party.CreateElement("cac:PartyName")
	text(name, "cbc:Name", buyer.Name)

	addPostalAddress(party, buyer)

	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", buyer.Name)
}

// addPostalAddress emits all four address fields even when empty.
func addPostalAddress(party *etree.Element, p model.Party) {
	address := party.CreateElement("cac:PostalAddress")
	text(address, "cbc:StreetName", p.Street)
	text(address, "cbc:CityName", p.City)
	text(address, "cbc:PostalZone", p.PostalCode)
	country := address.CreateElement("cac:Country")
	text(country, "cbc:IdentificationCode", p.Country())
}

func addInvoiceLine(root *etree.Element, idx int, item model.LineItem) {
	line := root.CreateElement("cac:InvoiceLine")
	text(line, "cbc:ID", strconv.Itoa(idx))

	qty := line.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", "EA")
	qty.SetText(item.Quantity.String())

	amount(line, "cbc:LineExtensionAmount", item.Total())

	itemElem := line.CreateElement("cac:Item")
	if item.Description != "" {
		text(itemElem, "cbc:Description", item.Description)
	}
	text(itemElem, "cbc:Name", item.DisplayName(idx))

	category := itemElem.CreateElement("cac:ClassifiedTaxCategory")
	text(category, "cbc:ID", taxCategoryStandard)
	text(category, "cbc:Percent", money.FormatPercent(item.EffectiveVATRate()))
	scheme := category.CreateElement("cac:TaxScheme")
	text(scheme, "cbc:ID", taxSchemeVAT)

	price := line.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", item.RoundedUnitPrice())
}

// computeTotals walks the items once, accumulating exact per-rate groups and
// the running net/tax totals. Groups are returned in ascending rate order.
func computeTotals(items []model.LineItem) (groups []*vatGroup, totalNet, totalTax decimal.Decimal) {
	byRate := make(map[string]*vatGroup)

	for _, item := range items {
		lineTotal := item.Total()
		rate := item.EffectiveVATRate()
		lineVAT := lineTotal.Mul(rate)

		key := rate.String()
		g, ok := byRate[key]
		if !ok {
			g = &vatGroup{rate: rate}
			byRate[key] = g
			groups = append(groups, g)
		}
		g.taxable = g.taxable.Add(lineTotal)
		g.tax = g.tax.Add(lineVAT)

		totalNet = totalNet.Add(lineTotal)
		totalTax = totalTax.Add(lineVAT)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].rate.LessThan(groups[j].rate)
	})
	return groups, totalNet, totalTax
}

func text(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func amount(parent *etree.Element, tag string, value decimal.Decimal) {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", documentCurrency)
	e.SetText(money.Format(value))
}
