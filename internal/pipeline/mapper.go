package pipeline

import "strings"

// Field returns the row value for a canonical header name, or "" for an
// unknown name.
func (r Row) Field(name string) string {
	switch name {
	case "firstName":
		return r.FirstName
	case "lastName":
		return r.LastName
	case "amount":
		return r.Amount
	case "address":
		return r.Address
	case "city":
		return r.City
	case "postalCode":
		return r.PostalCode
	case "country":
		return r.Country
	case "type":
		return r.Type
	case "formTitle":
		return r.FormTitle
	case "rateTitle":
		return r.RateTitle
	case "email":
		return r.Email
	case "language":
		return r.Language
	case "date (MM/DD/YYYY)":
		return r.Date
	case "state/province":
		return r.StateProvince
	case "paymentMethod":
		return r.PaymentMethod
	case "receiptUrl":
		return r.ReceiptURL
	case "ticketUrl":
		return r.TicketURL
	case "receiptNumber":
		return r.ReceiptNumber
	case "companyName":
		return r.CompanyName
	case "note":
		return r.Note
	case "annotation":
		return r.Annotation
	default:
		return ""
	}
}

var canonicalFieldSet = func() map[string]bool {
	set := make(map[string]bool, len(CanonicalHeaders))
	for _, h := range CanonicalHeaders {
		set[h] = true
	}
	return set
}()

// ProjectRow projects a canonical row onto an output header list. A header
// that is itself a canonical field name maps directly; anything else goes
// through the alias table; unrecognized headers yield empty columns.
func ProjectRow(row Row, headers []string, aliases []HeaderAlias) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		field := h
		if !canonicalFieldSet[h] {
			field = MatchHeader(h, aliases)
		}
		out[i] = row.Field(field)
	}
	return out
}

// BuildAnnotation concatenates the traceability fragments of a source
// transaction as "label: value" pairs joined with "; ", skipping empties.
func BuildAnnotation(txnID, invoiceID, transID, gateway, description string) string {
	parts := make([]string, 0, 5)
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("txn", txnID)
	add("invoice", invoiceID)
	add("transid", transID)
	add("gateway", gateway)
	add("desc", description)
	return strings.Join(parts, "; ")
}

// joinAddress merges the two WHMCS address lines into the platform's single
// address field.
func joinAddress(line1, line2 string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{line1, line2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
