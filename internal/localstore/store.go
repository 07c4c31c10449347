// Package localstore persists the two ledger collections as JSON array
// slots on disk. It is the authoritative store while no identity is signed
// in, and a read-through mirror of the remote store while one is.
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/khatapp/khata/internal/ledger"
)

const (
	slotCustomers    = "customers"
	slotTransactions = "transactions"
)

// Store owns the on-disk slots. All slot access goes through one mutex so a
// load-mutate-persist sequence is atomic with respect to other goroutines
// (HTTP handlers, subscription callbacks, imports).
type Store struct {
	mu       sync.Mutex
	dir      string
	onChange []func()
}

// New returns a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// OnChange registers a callback fired after every successful write, so other
// consumers of the same slots can re-read and re-render.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = append(s.onChange, fn)
}

// Customers reads the customers slot. A missing or corrupt slot degrades to
// an empty collection; read never fails to the caller.
func (s *Store) Customers() []ledger.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var customers []ledger.Customer
	s.readSlot(slotCustomers, &customers)

	return customers
}

// Transactions reads the transactions slot, with the same degrade-to-empty
// behavior as Customers.
func (s *Store) Transactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transactions []ledger.Transaction
	s.readSlot(slotTransactions, &transactions)

	return transactions
}

// PutCustomers fully replaces the customers slot.
func (s *Store) PutCustomers(customers []ledger.Customer) error {
	s.mu.Lock()

	if customers == nil {
		customers = []ledger.Customer{}
	}

	err := s.writeSlot(slotCustomers, customers)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.notify()

	return nil
}

// PutTransactions fully replaces the transactions slot.
func (s *Store) PutTransactions(transactions []ledger.Transaction) error {
	s.mu.Lock()

	if transactions == nil {
		transactions = []ledger.Transaction{}
	}

	err := s.writeSlot(slotTransactions, transactions)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.notify()

	return nil
}

// Clear empties both slots.
func (s *Store) Clear() error {
	if err := s.PutCustomers(nil); err != nil {
		return err
	}

	return s.PutTransactions(nil)
}

func (s *Store) slotPath(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

func (s *Store) readSlot(slot string, out any) {
	data, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("unreadable slot, treating as empty", "slot", slot, "error", err)
		}

		return
	}

	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("corrupt slot, treating as empty", "slot", slot, "error", err)
	}
}

// writeSlot replaces a slot atomically: the new content lands in a temp file
// first, so a failed write leaves the previous durable state intact.
func (s *Store) writeSlot(slot string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", slot, err)
	}

	path := s.slotPath(slot)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", slot, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", slot, err)
	}

	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	callbacks := make([]func(), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
