// Package exchange serializes the two ledger collections to portable
// formats (JSON backup, CSV tables) and parses them back, reconstructing
// customer/transaction links by natural key when explicit ids are absent.
package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/khatapp/khata/internal/ledger"
)

// Backup is the JSON backup shape: a structured dump of both collections.
type Backup struct {
	Customers    []ledger.Customer    `json:"customers"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// MarshalBackup renders a pretty-printed JSON backup.
func MarshalBackup(b Backup) ([]byte, error) {
	if b.Customers == nil {
		b.Customers = []ledger.Customer{}
	}

	if b.Transactions == nil {
		b.Transactions = []ledger.Transaction{}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}

	return data, nil
}

// ParseBackup parses a JSON backup. Malformed input fails as a whole: no
// records are returned, so the caller applies nothing. Missing keys degrade
// to empty collections.
func ParseBackup(data []byte) (Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("invalid backup file: %w", err)
	}

	return b, nil
}
