package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a referenced record does not exist in the
// current collection scope.
var ErrNotFound = errors.New("record not found")

// Type represents the direction of a ledger transaction.
type Type string

const (
	// TypeGiven means the owner extended credit to the customer
	// (increases what the customer owes).
	TypeGiven Type = "given"
	// TypeReceived means the customer paid the owner back
	// (decreases what the customer owes).
	TypeReceived Type = "received"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeGiven || t == TypeReceived
}

// Customer is a party the owner keeps a running balance with.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt Time   `json:"createdAt"`
}

// Transaction is a single credit or debit entry against a customer.
type Transaction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Type       Type            `json:"type"`
	Note       string          `json:"note,omitempty"`
	Date       Time            `json:"date"`
	CreatedAt  Time            `json:"createdAt"`
}

// ValidationError is returned when user input is rejected before any
// mutation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewID generates a client-side record id: millisecond timestamp plus a
// random suffix, unique enough within a collection and sortable by creation.
func NewID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// NewCustomer validates the input and builds a Customer with a fresh id.
func NewCustomer(name, phone, address string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	return Customer{
		ID:        NewID(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Address:   strings.TrimSpace(address),
		CreatedAt: Now(),
	}, nil
}

// NewTransaction validates the input and builds a Transaction with a fresh id.
// The amount is rounded to 2 fractional digits at entry; zero or negative
// amounts are rejected.
func NewTransaction(customerID string, amount decimal.Decimal, txType Type, note string, date Time) (Transaction, error) {
	if customerID == "" {
		return Transaction{}, &ValidationError{Field: "customerId", Reason: "must not be empty"}
	}

	amount = amount.Round(2)
	if amount.Sign() <= 0 {
		return Transaction{}, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	if !txType.Valid() {
		return Transaction{}, &ValidationError{Field: "type", Reason: fmt.Sprintf("must be %q or %q", TypeGiven, TypeReceived)}
	}

	if date.IsZero() {
		return Transaction{}, &ValidationError{Field: "date", Reason: "must not be empty"}
	}

	return Transaction{
		ID:         NewID(),
		CustomerID: customerID,
		Amount:     amount,
		Type:       txType,
		Note:       strings.TrimSpace(note),
		Date:       date,
		CreatedAt:  Now(),
	}, nil
}
