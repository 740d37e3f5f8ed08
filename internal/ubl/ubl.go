// Package ubl implements the bidirectional codec between the invoice model
// and the UBL 2.1 / EN16931 / Peppol BIS Billing 3.0 wire format.
//
// Generate and Extract are pure functions over their inputs: they hold no
// state across calls, perform no I/O, and are safe for concurrent use.
package ubl

// OASIS UBL 2.1 namespaces.
const (
	NamespaceInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NamespaceCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NamespaceCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
)

// Peppol BIS Billing 3.0 profile identifiers.
const (
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	ProfileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

const (
	invoiceTypeCode  = "380" // commercial invoice
	documentCurrency = "EUR"

	// Belgian enterprise number scheme for PartyIdentification.
	enterpriseNumberScheme = "0208"
	fallbackEnterpriseID   = "0000000000"

	// Credit transfer.
	paymentMeansCode = "31"

	taxCategoryStandard = "S"
	taxSchemeVAT        = "VAT"

	dateLayout = "2006-01-02"
)
