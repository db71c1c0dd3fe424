package whmcs

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// table is a fully loaded CSV file with case-insensitive header lookup.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readTable: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// The exporters quote free-text fields but column counts can drift when
	// a description embeds a delimiter; locate columns by header instead.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("readTable: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("readTable: %q has no header row", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}

	return &table{path: path, columns: columns, rows: records[1:]}, nil
}

// field returns the named column of row, or "" when the column is absent or
// the row is short.
func (t *table) field(row []string, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (t *table) require(names ...string) error {
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			return fmt.Errorf("%q is missing required column %q", t.path, name)
		}
	}
	return nil
}

// LoadClients reads the clients export into memory.
func LoadClients(path string) ([]Client, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("LoadClients: %w", err)
	}
	if err := t.require("id"); err != nil {
		return nil, fmt.Errorf("LoadClients: %w", err)
	}

	clients := make([]Client, 0, len(t.rows))
	for _, row := range t.rows {
		clients = append(clients, Client{
			ID:          t.field(row, "id"),
			FirstName:   t.field(row, "firstname"),
			LastName:    t.field(row, "lastname"),
			CompanyName: t.field(row, "companyname"),
			Email:       t.field(row, "email"),
			Address1:    t.field(row, "address1"),
			Address2:    t.field(row, "address2"),
			City:        t.field(row, "city"),
			State:       t.field(row, "state"),
			PostCode:    t.field(row, "postcode"),
			Country:     t.field(row, "country"),
		})
	}
	return clients, nil
}

// LoadTransactions reads the transactions export into memory.
func LoadTransactions(path string) ([]Transaction, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("LoadTransactions: %w", err)
	}
	if err := t.require("userid"); err != nil {
		return nil, fmt.Errorf("LoadTransactions: %w", err)
	}

	txns := make([]Transaction, 0, len(t.rows))
	for _, row := range t.rows {
		txns = append(txns, Transaction{
			ID:          t.field(row, "id"),
			ClientID:    t.field(row, "userid"),
			TransID:     t.field(row, "transid"),
			Date:        t.field(row, "date"),
			Gateway:     t.field(row, "gateway"),
			AmountIn:    t.field(row, "amountin"),
			AmountOut:   t.field(row, "amountout"),
			InvoiceID:   t.field(row, "invoiceid"),
			Description: t.field(row, "description"),
		})
	}
	return txns, nil
}

// LoadInvoices reads the invoices export into memory.
func LoadInvoices(path string) ([]Invoice, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("LoadInvoices: %w", err)
	}
	if err := t.require("id", "userid"); err != nil {
		return nil, fmt.Errorf("LoadInvoices: %w", err)
	}

	invoices := make([]Invoice, 0, len(t.rows))
	for _, row := range t.rows {
		invoices = append(invoices, Invoice{
			ID:            t.field(row, "id"),
			ClientID:      t.field(row, "userid"),
			Total:         t.field(row, "total"),
			Status:        t.field(row, "status"),
			PaymentMethod: t.field(row, "paymentmethod"),
			Date:          t.field(row, "date"),
		})
	}
	return invoices, nil
}
