package exchange

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/ledger"
)

var (
	customersHeader       = []string{"id", "name", "phone", "address", "createdAt"}
	transactionsHeader    = []string{"custName", "phone", "amount", "type", "note", "date"}
	customerHistoryHeader = []string{"id", "customerId", "amount", "type", "note", "date"}
)

// CustomersCSV renders the customers table.
func CustomersCSV(customers []ledger.Customer) ([]byte, error) {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.ID, c.Name, c.Phone, c.Address, c.CreatedAt.String()})
	}

	return writeCSV(customersHeader, rows)
}

// TransactionsCSV renders all transactions joined against their customers by
// id. A transaction whose customer is gone exports with empty name/phone
// rather than failing.
func TransactionsCSV(customers []ledger.Customer, transactions []ledger.Transaction) ([]byte, error) {
	byID := make(map[string]ledger.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	rows := make([][]string, 0, len(transactions))

	for _, t := range transactions {
		c := byID[t.CustomerID]
		rows = append(rows, []string{c.Name, c.Phone, t.Amount.String(), string(t.Type), t.Note, t.Date.String()})
	}

	return writeCSV(transactionsHeader, rows)
}

// CustomerTransactionsCSV renders one customer's history with explicit ids.
func CustomerTransactionsCSV(transactions []ledger.Transaction) ([]byte, error) {
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{t.ID, t.CustomerID, t.Amount.String(), string(t.Type), t.Note, t.Date.String()})
	}

	return writeCSV(customerHistoryHeader, rows)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing rows: %w", err)
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}

// Kind is the CSV table shape detected from the header row.
type Kind string

const (
	KindCustomers    Kind = "customers"
	KindTransactions Kind = "transactions"
)

// ErrUnrecognizedFormat fails an import whose header matches no known shape.
var ErrUnrecognizedFormat = fmt.Errorf("unrecognized csv format: expected a customers or transactions header")

// ImportResult carries the records a CSV import produced and the row
// accounting reported back to the user.
type ImportResult struct {
	Kind            Kind
	NewCustomers    []ledger.Customer
	NewTransactions []ledger.Transaction
	Applied         int
	Skipped         int
}

// naturalKey is the duplicate-detection fallback when no id is available:
// case-insensitive name plus exact phone, both trimmed.
type naturalKey struct {
	name  string
	phone string
}

func keyOf(name, phone string) naturalKey {
	return naturalKey{
		name:  strings.ToLower(strings.TrimSpace(name)),
		phone: strings.TrimSpace(phone),
	}
}

// ImportCSV parses a CSV stream whose shape is auto-detected from the
// header row. The input may be in any encoding the detector understands.
// Malformed rows are skipped, not fatal; an unrecognized header fails the
// whole import.
func ImportCSV(r io.Reader, existing []ledger.Customer) (*ImportResult, error) {
	utf8r, err := newUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrUnrecognizedFormat
	}

	cols := indexColumns(rows[0])

	switch {
	case cols.has("name") && cols.has("phone"):
		return importCustomers(cols, rows[1:], existing)
	case cols.has("custName") && cols.has("amount") && cols.has("type"):
		return importTransactions(cols, rows[1:], existing)
	default:
		return nil, ErrUnrecognizedFormat
	}
}

// colIndex maps header names to their column position.
type colIndex map[string]int

func indexColumns(header []string) colIndex {
	cols := make(colIndex, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name != "" {
			cols[name] = i
		}
	}

	return cols
}

func (c colIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

func (c colIndex) value(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// importCustomers applies the customers table. Rows whose (name, phone)
// natural key already exists are skipped as duplicates; an id column is
// honored when present.
func importCustomers(cols colIndex, rows [][]string, existing []ledger.Customer) (*ImportResult, error) {
	seen := make(map[naturalKey]struct{}, len(existing))
	ids := make(map[string]struct{}, len(existing))

	for _, c := range existing {
		seen[keyOf(c.Name, c.Phone)] = struct{}{}
		ids[c.ID] = struct{}{}
	}

	result := &ImportResult{Kind: KindCustomers}

	for _, row := range rows {
		name := cols.value(row, "name")
		phone := cols.value(row, "phone")

		if name == "" {
			result.Skipped++
			continue
		}

		key := keyOf(name, phone)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}

		id := cols.value(row, "id")
		if id == "" {
			id = ledger.NewID()
		}

		if _, dup := ids[id]; dup {
			result.Skipped++
			continue
		}

		createdAt, err := ledger.ParseTime(cols.value(row, "createdAt"))
		if err != nil {
			createdAt = ledger.Now()
		}

		result.NewCustomers = append(result.NewCustomers, ledger.Customer{
			ID:        id,
			Name:      name,
			Phone:     phone,
			Address:   cols.value(row, "address"),
			CreatedAt: createdAt,
		})
		result.Applied++

		seen[key] = struct{}{}
		ids[id] = struct{}{}
	}

	return result, nil
}

// importTransactions applies the transactions table. Customers resolve by
// natural key; a row with no match synthesizes a customer with empty
// address — the only path that ever creates a customer implicitly.
func importTransactions(cols colIndex, rows [][]string, existing []ledger.Customer) (*ImportResult, error) {
	byKey := make(map[naturalKey]string, len(existing))
	for _, c := range existing {
		byKey[keyOf(c.Name, c.Phone)] = c.ID
	}

	result := &ImportResult{Kind: KindTransactions}

	for _, row := range rows {
		name := cols.value(row, "custName")
		if name == "" {
			result.Skipped++
			continue
		}

		txType := ledger.Type(cols.value(row, "type"))
		if !txType.Valid() {
			result.Skipped++
			continue
		}

		amount, err := decimal.NewFromString(cols.value(row, "amount"))
		if err != nil || amount.Round(2).Sign() <= 0 {
			result.Skipped++
			continue
		}

		date, err := ledger.ParseTime(cols.value(row, "date"))
		if err != nil {
			date = ledger.Now()
		}

		phone := cols.value(row, "phone")

		key := keyOf(name, phone)

		customerID, ok := byKey[key]
		if !ok {
			synthesized := ledger.Customer{
				ID:        ledger.NewID(),
				Name:      name,
				Phone:     phone,
				CreatedAt: ledger.Now(),
			}
			result.NewCustomers = append(result.NewCustomers, synthesized)

			customerID = synthesized.ID
			byKey[key] = customerID
		}

		tx, err := ledger.NewTransaction(customerID, amount, txType, cols.value(row, "note"), date)
		if err != nil {
			result.Skipped++
			continue
		}

		result.NewTransactions = append(result.NewTransactions, tx)
		result.Applied++
	}

	return result, nil
}
