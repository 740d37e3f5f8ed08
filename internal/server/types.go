package server

// SendResponse reports the access point's answer for a sent invoice.
type SendResponse struct {
	InvoiceID string `json:"invoice_id"`
	Status    int    `json:"status"`
	Response  string `json:"response"`
}
