// Package whmcs holds the source record types produced by the WHMCS
// collector exports and the CSV readers that load them. Values are kept
// exactly as exported; all cleanup happens later in the pipeline.
package whmcs

// Client is one row of the clients export.
type Client struct {
	ID          string
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	Address1    string
	Address2    string
	City        string
	State       string
	PostCode    string
	Country     string
}

// Transaction is one row of the transactions export. ID is the WHMCS row id;
// TransID is the gateway's own transaction identifier. Synthesized
// transactions (manufactured from zero-total invoices) carry neither.
type Transaction struct {
	ID          string
	ClientID    string
	TransID     string
	Date        string
	Gateway     string
	AmountIn    string
	AmountOut   string
	InvoiceID   string
	Description string
}

// Invoice is one row of the invoices export. The pipeline only consumes
// invoices whose total canonicalizes to zero.
type Invoice struct {
	ID            string
	ClientID      string
	Total         string
	Status        string
	PaymentMethod string
	Date          string
}
