package models

// Product is one e-waste inventory record. Column aliases in the repository
// map the legacy mixed-case columns (Description, HSN_CODE, DOP, ...) onto
// the lowercase db tags below.
type Product struct {
	ID            int64  `db:"id" json:"id"`
	Description   string `db:"description" json:"description"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Status        string `db:"status" json:"status"`
	HSNCode       string `db:"hsn_code" json:"hsnCode"`
	Warranty      string `db:"warranty" json:"warranty"`
	PurchasedOn   Date   `db:"dop" json:"dateOfPurchase"`
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`
	InvoicedOn    Date   `db:"doi" json:"dateOfInvoice"`
}
