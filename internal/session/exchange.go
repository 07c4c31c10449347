package session

import (
	"context"
	"fmt"
	"io"

	"github.com/khatapp/khata/internal/exchange"
	"github.com/khatapp/khata/internal/ledger"
)

// ExportJSON snapshots the current view (the local slots, which mirror the
// remote collections while signed in) as a pretty-printed backup.
func (s *Session) ExportJSON() ([]byte, error) {
	return exchange.MarshalBackup(exchange.Backup{
		Customers:    s.local.Customers(),
		Transactions: s.local.Transactions(),
	})
}

// ImportJSON applies a JSON backup. Anonymous mode replaces both local
// collections wholesale; authenticated mode merges by upserting every record
// into the remote tenant, which is idempotent by id. Malformed input applies
// nothing.
func (s *Session) ImportJSON(ctx context.Context, data []byte) error {
	backup, err := exchange.ParseBackup(data)
	if err != nil {
		return err
	}

	if s.Authenticated() {
		return s.mergeRemote(ctx, backup.Customers, backup.Transactions)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.local.PutCustomers(backup.Customers); err != nil {
		return err
	}

	return s.local.PutTransactions(backup.Transactions)
}

// ImportCSV applies a CSV import (shape auto-detected) and reports how many
// rows were applied and skipped.
func (s *Session) ImportCSV(ctx context.Context, r io.Reader) (*exchange.ImportResult, error) {
	if s.Authenticated() {
		result, err := exchange.ImportCSV(r, s.local.Customers())
		if err != nil {
			return nil, err
		}

		if err := s.mergeRemote(ctx, result.NewCustomers, result.NewTransactions); err != nil {
			return nil, err
		}

		return result, nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	result, err := exchange.ImportCSV(r, s.local.Customers())
	if err != nil {
		return nil, err
	}

	if len(result.NewCustomers) > 0 {
		customers := append(s.local.Customers(), result.NewCustomers...)
		if err := s.local.PutCustomers(customers); err != nil {
			return nil, err
		}
	}

	if len(result.NewTransactions) > 0 {
		transactions := append(s.local.Transactions(), result.NewTransactions...)
		if err := s.local.PutTransactions(transactions); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ExportCustomersCSV renders the customers table from the current view.
func (s *Session) ExportCustomersCSV() ([]byte, error) {
	return exchange.CustomersCSV(s.local.Customers())
}

// ExportTransactionsCSV renders all transactions joined with their
// customers.
func (s *Session) ExportTransactionsCSV() ([]byte, error) {
	return exchange.TransactionsCSV(s.local.Customers(), s.local.Transactions())
}

// ExportCustomerTransactionsCSV renders one customer's history.
func (s *Session) ExportCustomerTransactionsCSV(customerID string) ([]byte, error) {
	detail, err := s.CustomerDetail(customerID)
	if err != nil {
		return nil, err
	}

	return exchange.CustomerTransactionsCSV(detail.Transactions)
}

// mergeRemote upserts imported records into the remote tenant. Records
// without an id get one first, so retries stay idempotent.
func (s *Session) mergeRemote(ctx context.Context, customers []ledger.Customer, transactions []ledger.Transaction) error {
	tenant := s.tenant()

	for _, c := range customers {
		if c.ID == "" {
			c.ID = ledger.NewID()
		}

		if err := s.remote.UpsertCustomer(ctx, tenant, c); err != nil {
			return fmt.Errorf("merging customer %s: %w", c.ID, err)
		}
	}

	for _, t := range transactions {
		if t.ID == "" {
			t.ID = ledger.NewID()
		}

		if err := s.remote.UpsertTransaction(ctx, tenant, t); err != nil {
			return fmt.Errorf("merging transaction %s: %w", t.ID, err)
		}
	}

	return nil
}
