package exchange_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/khatapp/khata/internal/exchange"
	"github.com/khatapp/khata/internal/ledger"
)

func TestCustomersCSV(t *testing.T) {
	created := fixedTime(t, "2024-03-01T10:30:00Z")

	customers := []ledger.Customer{
		{ID: "c1", Name: "Raj Kumar", Phone: "9876500001", Address: "12, MG Road", CreatedAt: created},
		{ID: "c2", Name: "Meena", CreatedAt: created},
	}

	data, err := exchange.CustomersCSV(customers)
	require.NoError(t, err)

	want := "id,name,phone,address,createdAt\n" +
		"c1,Raj Kumar,9876500001,\"12, MG Road\",2024-03-01T10:30:00Z\n" +
		"c2,Meena,,,2024-03-01T10:30:00Z\n"
	assert.Equal(t, want, string(data))
}

func TestTransactionsCSV_JoinsCustomers(t *testing.T) {
	date := fixedTime(t, "2024-03-02T00:00:00Z")

	customers := []ledger.Customer{
		{ID: "c1", Name: "Raj Kumar", Phone: "9876500001"},
	}
	transactions := []ledger.Transaction{
		{ID: "t1", CustomerID: "c1", Amount: decimal.RequireFromString("150"), Type: ledger.TypeGiven, Note: "bricks", Date: date},
		// Customer gone: exports with empty name/phone instead of failing.
		{ID: "t2", CustomerID: "missing", Amount: decimal.RequireFromString("99.5"), Type: ledger.TypeReceived, Date: date},
	}

	data, err := exchange.TransactionsCSV(customers, transactions)
	require.NoError(t, err)

	want := "custName,phone,amount,type,note,date\n" +
		"Raj Kumar,9876500001,150,given,bricks,2024-03-02T00:00:00Z\n" +
		",,99.5,received,,2024-03-02T00:00:00Z\n"
	assert.Equal(t, want, string(data))
}

func TestCustomerTransactionsCSV(t *testing.T) {
	date := fixedTime(t, "2024-03-02T00:00:00Z")

	data, err := exchange.CustomerTransactionsCSV([]ledger.Transaction{
		{ID: "t1", CustomerID: "c1", Amount: decimal.RequireFromString("150"), Type: ledger.TypeGiven, Date: date},
	})
	require.NoError(t, err)

	want := "id,customerId,amount,type,note,date\n" +
		"t1,c1,150,given,,2024-03-02T00:00:00Z\n"
	assert.Equal(t, want, string(data))
}

func TestImportCSV_Customers(t *testing.T) {
	existing := []ledger.Customer{
		{ID: "c1", Name: "Raj Kumar", Phone: "9876500001"},
	}

	input := strings.Join([]string{
		"id,name,phone,address,createdAt",
		// Duplicate natural key (case-insensitive name, exact phone).
		"x1,raj kumar,9876500001,Somewhere,2024-03-01T10:30:00Z",
		// Same name but a different phone is a different person.
		"x2,Raj Kumar,9876500002,,2024-03-01T10:30:00Z",
		// Empty name.
		"x3,,123,,",
		// Duplicate id.
		"c1,Fresh Name,555,,",
		// No id column value: one gets generated.
		",Meena,777,,not-a-date",
	}, "\n")

	result, err := exchange.ImportCSV(strings.NewReader(input), existing)
	require.NoError(t, err)

	assert.Equal(t, exchange.KindCustomers, result.Kind)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.NewCustomers, 2)
	assert.Empty(t, result.NewTransactions)

	first := result.NewCustomers[0]
	assert.Equal(t, "x2", first.ID)
	assert.Equal(t, "Raj Kumar", first.Name)
	assert.Equal(t, "9876500002", first.Phone)
	assert.Equal(t, "2024-03-01T10:30:00Z", first.CreatedAt.String())

	second := result.NewCustomers[1]
	assert.NotEmpty(t, second.ID, "missing id gets generated")
	assert.Equal(t, "Meena", second.Name)
	assert.False(t, second.CreatedAt.IsZero(), "unparseable createdAt falls back to now")
}

func TestImportCSV_Transactions(t *testing.T) {
	existing := []ledger.Customer{
		{ID: "c1", Name: "Raj Kumar", Phone: "9876500001"},
	}

	input := strings.Join([]string{
		"custName,phone,amount,type,note,date",
		// Resolves to the existing customer despite the case difference.
		"RAJ KUMAR,9876500001,150,given,bricks,2024-03-02T00:00:00Z",
		// Unknown customer: synthesized once, reused by the next row.
		"Meena,777,200,given,,2024-03-02T00:00:00Z",
		"Meena,777,50,received,,2024-03-02T00:00:00Z",
		// Skipped rows: empty name, bad type, bad amount, non-positive amount.
		",777,10,given,,",
		"Raj Kumar,9876500001,10,loaned,,",
		"Raj Kumar,9876500001,ten,given,,",
		"Raj Kumar,9876500001,-5,given,,",
		// Unparseable date falls back to now instead of skipping.
		"Raj Kumar,9876500001,25,received,,someday",
	}, "\n")

	result, err := exchange.ImportCSV(strings.NewReader(input), existing)
	require.NoError(t, err)

	assert.Equal(t, exchange.KindTransactions, result.Kind)
	assert.Equal(t, 4, result.Applied)
	assert.Equal(t, 4, result.Skipped)
	require.Len(t, result.NewTransactions, 4)

	require.Len(t, result.NewCustomers, 1, "two rows for the same unknown customer synthesize it once")
	meena := result.NewCustomers[0]
	assert.Equal(t, "Meena", meena.Name)
	assert.Equal(t, "777", meena.Phone)
	assert.Empty(t, meena.Address)

	assert.Equal(t, "c1", result.NewTransactions[0].CustomerID)
	assert.Equal(t, meena.ID, result.NewTransactions[1].CustomerID)
	assert.Equal(t, meena.ID, result.NewTransactions[2].CustomerID)
	assert.False(t, result.NewTransactions[3].Date.IsZero())
}

func TestImportCSV_UnrecognizedFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "unknown header", input: "foo,bar\n1,2\n"},
		{name: "customers header missing phone", input: "id,name\nc1,Raj\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exchange.ImportCSV(strings.NewReader(tt.input), nil)
			assert.ErrorIs(t, err, exchange.ErrUnrecognizedFormat)
		})
	}
}

func TestImportCSV_Encodings(t *testing.T) {
	const plain = "id,name,phone,address,createdAt\n,José,111,,\n"

	utf16le, err := transformBytes(t, plain, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	require.NoError(t, err)

	win1252, err := transformBytes(t, plain, charmap.Windows1252.NewEncoder())
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "plain utf-8", input: []byte(plain)},
		{name: "utf-8 with bom", input: append([]byte{0xEF, 0xBB, 0xBF}, plain...)},
		{name: "utf-16 little endian", input: utf16le},
		{name: "windows-1252", input: win1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := exchange.ImportCSV(bytes.NewReader(tt.input), nil)
			require.NoError(t, err)

			require.Len(t, result.NewCustomers, 1)
			assert.Equal(t, "José", result.NewCustomers[0].Name)
		})
	}
}

func transformBytes(t *testing.T, s string, tr transform.Transformer) ([]byte, error) {
	t.Helper()

	out, _, err := transform.Bytes(tr, []byte(s))

	return out, err
}
