package session

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/ledger"
)

// Sort selects the customer list ordering.
type Sort string

const (
	SortRecent      Sort = "recent"
	SortBalanceDesc Sort = "balanceDesc"
	SortBalanceAsc  Sort = "balanceAsc"
	SortNameAsc     Sort = "nameAsc"
	SortNameDesc    Sort = "nameDesc"
)

// CustomerView is a customer together with its derived balance.
type CustomerView struct {
	ledger.Customer
	Balance decimal.Decimal `json:"balance"`
	Tag     string          `json:"tag"`
}

// CustomerDetail is one customer with its transaction history, most recent
// first.
type CustomerDetail struct {
	CustomerView
	Transactions []ledger.Transaction `json:"transactions"`
}

// CreateCustomer validates and persists a new customer on the authoritative
// store.
func (s *Session) CreateCustomer(ctx context.Context, name, phone, address string) (ledger.Customer, error) {
	c, err := ledger.NewCustomer(name, phone, address)
	if err != nil {
		return ledger.Customer{}, err
	}

	if s.Authenticated() {
		if err := s.remote.UpsertCustomer(ctx, s.tenant(), c); err != nil {
			return ledger.Customer{}, err
		}

		return c, nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	customers := append(s.local.Customers(), c)
	if err := s.local.PutCustomers(customers); err != nil {
		return ledger.Customer{}, err
	}

	return c, nil
}

// UpdateCustomer fully replaces an existing customer record.
func (s *Session) UpdateCustomer(ctx context.Context, c ledger.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ledger.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if c.ID == "" {
		return &ledger.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	if s.Authenticated() {
		return s.remote.UpsertCustomer(ctx, s.tenant(), c)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	customers := s.local.Customers()

	idx := slices.IndexFunc(customers, func(existing ledger.Customer) bool { return existing.ID == c.ID })
	if idx < 0 {
		return ledger.ErrNotFound
	}

	customers[idx] = c

	return s.local.PutCustomers(customers)
}

// DeleteCustomer cascade-deletes the customer and every transaction that
// references it. Transactions go first, so a partial failure leaves the
// customer (with its history) rather than orphaned transactions.
func (s *Session) DeleteCustomer(ctx context.Context, id string) error {
	if s.Authenticated() {
		tenant := s.tenant()

		if err := s.remote.DeleteTransactionsFor(ctx, tenant, id); err != nil {
			return fmt.Errorf("cascade-deleting transactions: %w", err)
		}

		return s.remote.DeleteCustomer(ctx, tenant, id)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	transactions := slices.DeleteFunc(s.local.Transactions(), func(t ledger.Transaction) bool {
		return t.CustomerID == id
	})
	if err := s.local.PutTransactions(transactions); err != nil {
		return fmt.Errorf("cascade-deleting transactions: %w", err)
	}

	customers := slices.DeleteFunc(s.local.Customers(), func(c ledger.Customer) bool {
		return c.ID == id
	})

	return s.local.PutCustomers(customers)
}

// CreateTransaction validates and persists a new ledger entry. The customer
// must exist at creation time.
func (s *Session) CreateTransaction(ctx context.Context, customerID string, amount decimal.Decimal, txType ledger.Type, note string, date ledger.Time) (ledger.Transaction, error) {
	t, err := ledger.NewTransaction(customerID, amount, txType, note, date)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if !s.customerExists(customerID) {
		return ledger.Transaction{}, &ledger.ValidationError{Field: "customerId", Reason: "no such customer"}
	}

	if s.Authenticated() {
		if err := s.remote.UpsertTransaction(ctx, s.tenant(), t); err != nil {
			return ledger.Transaction{}, err
		}

		return t, nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	transactions := append(s.local.Transactions(), t)
	if err := s.local.PutTransactions(transactions); err != nil {
		return ledger.Transaction{}, err
	}

	return t, nil
}

// DeleteTransaction removes a single ledger entry; absent ids are a no-op.
func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	if s.Authenticated() {
		return s.remote.DeleteTransaction(ctx, s.tenant(), id)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	transactions := slices.DeleteFunc(s.local.Transactions(), func(t ledger.Transaction) bool {
		return t.ID == id
	})

	return s.local.PutTransactions(transactions)
}

// ClearAll wipes both local collections. It is refused while signed in: the
// remote tenant is authoritative then and the mirror would just repopulate.
func (s *Session) ClearAll() error {
	if s.Authenticated() {
		return fmt.Errorf("clear all is not available while signed in")
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.local.Clear()
}

// ListCustomers returns the current view filtered by a case-insensitive
// name/phone substring and ordered by the requested sort.
func (s *Session) ListCustomers(query string, sortBy Sort) []CustomerView {
	customers := s.local.Customers()
	balances := ledger.ComputeBalances(customers, s.local.Transactions())

	query = strings.ToLower(strings.TrimSpace(query))

	views := make([]CustomerView, 0, len(customers))

	for _, c := range customers {
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Phone), query) {
			continue
		}

		balance := balances[c.ID]
		views = append(views, CustomerView{Customer: c, Balance: balance, Tag: ledger.BalanceTag(balance)})
	}

	sortViews(views, sortBy)

	return views
}

// CustomerDetail returns one customer with balance and history.
func (s *Session) CustomerDetail(id string) (*CustomerDetail, error) {
	customers := s.local.Customers()

	idx := slices.IndexFunc(customers, func(c ledger.Customer) bool { return c.ID == id })
	if idx < 0 {
		return nil, ledger.ErrNotFound
	}

	transactions := s.local.Transactions()
	balances := ledger.ComputeBalances(customers, transactions)

	history := make([]ledger.Transaction, 0)

	for _, t := range transactions {
		if t.CustomerID == id {
			history = append(history, t)
		}
	}

	slices.SortStableFunc(history, func(a, b ledger.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	balance := balances[id]

	return &CustomerDetail{
		CustomerView: CustomerView{Customer: customers[idx], Balance: balance, Tag: ledger.BalanceTag(balance)},
		Transactions: history,
	}, nil
}

// Balances derives the per-customer balances from the current view.
func (s *Session) Balances() map[string]decimal.Decimal {
	return ledger.ComputeBalances(s.local.Customers(), s.local.Transactions())
}

// Totals derives the aggregate get/give/net amounts from the current view.
func (s *Session) Totals() ledger.Totals {
	return ledger.ComputeTotals(s.Balances())
}

func (s *Session) tenant() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ""
	}

	return s.current.UID
}

func (s *Session) customerExists(id string) bool {
	return slices.ContainsFunc(s.local.Customers(), func(c ledger.Customer) bool { return c.ID == id })
}

func sortViews(views []CustomerView, sortBy Sort) {
	slices.SortStableFunc(views, func(a, b CustomerView) int {
		switch sortBy {
		case SortBalanceDesc:
			return b.Balance.Cmp(a.Balance)
		case SortBalanceAsc:
			return a.Balance.Cmp(b.Balance)
		case SortNameAsc:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortNameDesc:
			return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name))
		default: // SortRecent
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	})
}
