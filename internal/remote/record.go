package remote

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/ledger"
)

// Documents are written as plain maps so MergeAll upserts only touch the
// fields we own, and so timestamps can be normalized on the way out.
// Firestore's native timestamp type never leaves this package.

func encodeCustomer(c ledger.Customer) map[string]any {
	data := map[string]any{
		"name":    c.Name,
		"phone":   c.Phone,
		"address": c.Address,
	}

	data["createdAt"] = encodeTime(c.CreatedAt)

	return data
}

func encodeTransaction(t ledger.Transaction) map[string]any {
	data := map[string]any{
		"customerId": t.CustomerID,
		"amount":     t.Amount.InexactFloat64(),
		"type":       string(t.Type),
		"note":       t.Note,
		"date":       t.Date.Time(),
	}

	data["createdAt"] = encodeTime(t.CreatedAt)

	return data
}

// encodeTime lets the server stamp creation instants we do not have yet.
func encodeTime(t ledger.Time) any {
	if t.IsZero() {
		return firestore.ServerTimestamp
	}

	return t.Time()
}

func decodeCustomer(id string, data map[string]any) ledger.Customer {
	return ledger.Customer{
		ID:        id,
		Name:      stringField(data, "name"),
		Phone:     stringField(data, "phone"),
		Address:   stringField(data, "address"),
		CreatedAt: timeField(data, "createdAt"),
	}
}

func decodeTransaction(id string, data map[string]any) ledger.Transaction {
	return ledger.Transaction{
		ID:         id,
		CustomerID: stringField(data, "customerId"),
		Amount:     amountField(data, "amount"),
		Type:       ledger.Type(stringField(data, "type")),
		Note:       stringField(data, "note"),
		Date:       timeField(data, "date"),
		CreatedAt:  timeField(data, "createdAt"),
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func amountField(data map[string]any, key string) decimal.Decimal {
	switch v := data[key].(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2)
	case int64:
		return decimal.NewFromInt(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d.Round(2)
		}
	}

	return decimal.Zero
}

// timeField normalizes whatever representation the backend stored: a native
// timestamp, or ISO-8601 text from an older client.
func timeField(data map[string]any, key string) ledger.Time {
	switch v := data[key].(type) {
	case time.Time:
		return ledger.FromTime(v)
	case string:
		if t, err := ledger.ParseTime(v); err == nil {
			return t
		}
	}

	return ledger.Time{}
}
