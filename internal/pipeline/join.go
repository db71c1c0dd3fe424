package pipeline

import (
	"fmt"

	"github.com/opsdeck/whmcs-import/internal/whmcs"
)

// BuildClientIndex keys clients by identifier. The first record wins on a
// duplicate id, matching the collector's export order.
func BuildClientIndex(clients []whmcs.Client) map[string]whmcs.Client {
	index := make(map[string]whmcs.Client, len(clients))
	for _, c := range clients {
		id := NormalizeField(c.ID)
		if id == "" {
			continue
		}
		if _, exists := index[id]; !exists {
			index[id] = c
		}
	}
	return index
}

// SynthesizeZeroInvoices manufactures pseudo-transactions for invoices whose
// total canonicalizes to exactly zero and that have no transaction yet, so
// $0 donations and registrations are not silently dropped from the import.
func SynthesizeZeroInvoices(invoices []whmcs.Invoice, txns []whmcs.Transaction) []whmcs.Transaction {
	represented := make(map[string]bool, len(txns))
	for _, t := range txns {
		if id := NormalizeField(t.InvoiceID); id != "" {
			represented[id] = true
		}
	}

	var synthesized []whmcs.Transaction
	for _, inv := range invoices {
		total, ok := ParseAmount(inv.Total)
		if !ok || !total.IsZero() {
			continue
		}
		id := NormalizeField(inv.ID)
		if id == "" || represented[id] {
			continue
		}

		gateway := NormalizeField(inv.PaymentMethod)
		if gateway == "" {
			gateway = MethodFree
		}

		synthesized = append(synthesized, whmcs.Transaction{
			ClientID:    inv.ClientID,
			Date:        inv.Date,
			Gateway:     gateway,
			AmountIn:    "0",
			InvoiceID:   id,
			Description: fmt.Sprintf("Zero-total invoice (status: %s)", NormalizeField(inv.Status)),
		})
	}
	return synthesized
}
