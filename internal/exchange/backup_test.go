package exchange_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/exchange"
	"github.com/khatapp/khata/internal/ledger"
)

func fixedTime(t *testing.T, value string) ledger.Time {
	t.Helper()

	parsed, err := ledger.ParseTime(value)
	require.NoError(t, err)

	return parsed
}

func TestBackupRoundTrip(t *testing.T) {
	created := ledger.FromTime(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC))

	original := exchange.Backup{
		Customers: []ledger.Customer{
			{ID: "c1", Name: "Raj Kumar", Phone: "9876500001", Address: "MG Road", CreatedAt: created},
			{ID: "c2", Name: "Meena", CreatedAt: created},
		},
		Transactions: []ledger.Transaction{
			{
				ID:         "t1",
				CustomerID: "c1",
				Amount:     decimal.RequireFromString("350.5"),
				Type:       ledger.TypeGiven,
				Note:       "cement bags",
				Date:       created,
				CreatedAt:  created,
			},
		},
	}

	data, err := exchange.MarshalBackup(original)
	require.NoError(t, err)

	parsed, err := exchange.ParseBackup(data)
	require.NoError(t, err)

	assert.Equal(t, original, parsed)
}

func TestMarshalBackup_EmptyCollectionsStayArrays(t *testing.T) {
	data, err := exchange.MarshalBackup(exchange.Backup{})
	require.NoError(t, err)

	assert.JSONEq(t, `{"customers": [], "transactions": []}`, string(data))
}

func TestParseBackup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "missing keys degrade to empty",
			input: `{}`,
		},
		{
			name:  "customers only",
			input: `{"customers": [{"id": "c1", "name": "Raj"}]}`,
		},
		{
			name:    "malformed json fails whole import",
			input:   `{"customers": [{"id": "c1"`,
			wantErr: true,
		},
		{
			name:    "wrong shape fails",
			input:   `{"customers": "not-a-list"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backup, err := exchange.ParseBackup([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, backup.Customers)
				assert.Empty(t, backup.Transactions)
				return
			}

			require.NoError(t, err)
		})
	}
}
