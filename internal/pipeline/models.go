// Package pipeline implements the WHMCS-to-import-draft transform: joining
// client and transaction records, sanitizing fields against the target
// platform's formatting rules, classifying payment methods, and projecting
// the result onto the import header set.
package pipeline

// Row is the canonical 21-field import record. All values are final output
// strings, already sanitized and classified.
type Row struct {
	FirstName     string
	LastName      string
	Amount        string
	Address       string
	City          string
	PostalCode    string
	Country       string
	Type          string
	FormTitle     string
	RateTitle     string
	Email         string
	Language      string
	Date          string // MM/DD/YYYY
	StateProvince string
	PaymentMethod string
	ReceiptURL    string
	TicketURL     string
	ReceiptNumber string
	CompanyName   string
	Note          string
	Annotation    string
}

// RowIDs correlates a canonical row back to its source records so an
// operator reviewing a report can find the offending data.
type RowIDs struct {
	Email         string
	ClientID      string
	TransactionID string
	InvoiceID     string
}

// ValidationError is one non-fatal data-quality finding. RowIndex is the
// position of the row in the emitted output, not in the source table.
type ValidationError struct {
	RowIndex  int
	Field     string
	Reason    string
	Raw       string
	Sanitized string
	IDs       RowIDs
}

// TransformDiff records an (original, sanitized) pair that differs, kept for
// operator review.
type TransformDiff struct {
	Field     string
	Original  string
	Sanitized string
	IDs       RowIDs
}

// Stats counts what happened to the input rows during one pass.
type Stats struct {
	Emitted          int
	SkippedNoClient  int
	SkippedAnonymous int
	SkippedNoAmount  int
	SkippedEmptyName int
	Synthesized      int
}

// Result is everything one pipeline pass produces. The accumulators are
// plain slices owned by the result; nothing is shared or mutated after the
// pass completes.
type Result struct {
	RunID        string
	Headers      []string
	Rows         [][]string
	Errors       []ValidationError
	PersonDiffs  []TransformDiff
	CompanyDiffs []TransformDiff
	Stats        Stats
}
