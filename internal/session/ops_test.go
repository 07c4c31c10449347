package session_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/ledger"
	"github.com/khatapp/khata/internal/localstore"
	"github.com/khatapp/khata/internal/session"
)

// newAnonymousSession builds a session with no identity provider configured,
// the way the app runs without cloud credentials.
func newAnonymousSession(t *testing.T) (*session.Session, *localstore.Store) {
	t.Helper()

	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	svc := session.New(local, nil, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Close)

	return svc, local
}

func mustCreateCustomer(t *testing.T, svc *session.Session, name, phone string) ledger.Customer {
	t.Helper()

	c, err := svc.CreateCustomer(context.Background(), name, phone, "")
	require.NoError(t, err)

	return c
}

func mustCreateTransaction(t *testing.T, svc *session.Session, customerID, amount string, txType ledger.Type) ledger.Transaction {
	t.Helper()

	tx, err := svc.CreateTransaction(context.Background(), customerID, decimal.RequireFromString(amount), txType, "", ledger.Now())
	require.NoError(t, err)

	return tx
}

func TestAnonymous_CustomerLifecycle(t *testing.T) {
	svc, local := newAnonymousSession(t)

	c := mustCreateCustomer(t, svc, "  Raj Kumar  ", "9876500001")
	assert.Equal(t, "Raj Kumar", c.Name, "name is trimmed")
	assert.NotEmpty(t, c.ID)

	c.Address = "MG Road"
	require.NoError(t, svc.UpdateCustomer(context.Background(), c))

	customers := local.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "MG Road", customers[0].Address)

	require.NoError(t, svc.DeleteCustomer(context.Background(), c.ID))
	assert.Empty(t, local.Customers())
}

func TestAnonymous_UpdateUnknownCustomer(t *testing.T) {
	svc, _ := newAnonymousSession(t)

	err := svc.UpdateCustomer(context.Background(), ledger.Customer{ID: "missing", Name: "Ghost"})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestAnonymous_DeleteCustomerCascades(t *testing.T) {
	svc, local := newAnonymousSession(t)

	keep := mustCreateCustomer(t, svc, "Keep", "1")
	gone := mustCreateCustomer(t, svc, "Gone", "2")

	kept := mustCreateTransaction(t, svc, keep.ID, "10", ledger.TypeGiven)
	mustCreateTransaction(t, svc, gone.ID, "20", ledger.TypeGiven)
	mustCreateTransaction(t, svc, gone.ID, "30", ledger.TypeReceived)

	require.NoError(t, svc.DeleteCustomer(context.Background(), gone.ID))

	transactions := local.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, kept.ID, transactions[0].ID)

	require.Len(t, local.Customers(), 1)
}

func TestAnonymous_CreateTransactionRequiresCustomer(t *testing.T) {
	svc, _ := newAnonymousSession(t)

	_, err := svc.CreateTransaction(context.Background(), "missing", decimal.RequireFromString("10"), ledger.TypeGiven, "", ledger.Now())

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customerId", verr.Field)
}

func TestAnonymous_DeleteTransaction(t *testing.T) {
	svc, local := newAnonymousSession(t)

	c := mustCreateCustomer(t, svc, "Raj", "1")
	tx := mustCreateTransaction(t, svc, c.ID, "10", ledger.TypeGiven)

	require.NoError(t, svc.DeleteTransaction(context.Background(), tx.ID))
	assert.Empty(t, local.Transactions())

	// Absent ids are a no-op.
	require.NoError(t, svc.DeleteTransaction(context.Background(), "missing"))
}

func TestListCustomers_SearchAndSort(t *testing.T) {
	svc, _ := newAnonymousSession(t)

	anita := mustCreateCustomer(t, svc, "Anita", "111222")
	bala := mustCreateCustomer(t, svc, "Bala", "333444")
	chandra := mustCreateCustomer(t, svc, "Chandra", "555111")

	mustCreateTransaction(t, svc, anita.ID, "100", ledger.TypeGiven)
	mustCreateTransaction(t, svc, bala.ID, "300", ledger.TypeGiven)
	mustCreateTransaction(t, svc, chandra.ID, "50", ledger.TypeReceived)

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		views := svc.ListCustomers("ANITA", session.SortNameAsc)
		require.Len(t, views, 1)
		assert.Equal(t, anita.ID, views[0].ID)
	})

	t.Run("search matches phone substring", func(t *testing.T) {
		views := svc.ListCustomers("111", session.SortNameAsc)
		require.Len(t, views, 2)
		assert.Equal(t, "Anita", views[0].Name)
		assert.Equal(t, "Chandra", views[1].Name)
	})

	t.Run("sort by balance descending", func(t *testing.T) {
		views := svc.ListCustomers("", session.SortBalanceDesc)
		require.Len(t, views, 3)
		assert.Equal(t, "Bala", views[0].Name)
		assert.Equal(t, "Anita", views[1].Name)
		assert.Equal(t, "Chandra", views[2].Name)
	})

	t.Run("sort by balance ascending", func(t *testing.T) {
		views := svc.ListCustomers("", session.SortBalanceAsc)
		require.Len(t, views, 3)
		assert.Equal(t, "Chandra", views[0].Name)
	})

	t.Run("sort by name descending", func(t *testing.T) {
		views := svc.ListCustomers("", session.SortNameDesc)
		require.Len(t, views, 3)
		assert.Equal(t, "Chandra", views[0].Name)
		assert.Equal(t, "Anita", views[2].Name)
	})

	t.Run("balance tags", func(t *testing.T) {
		views := svc.ListCustomers("", session.SortNameAsc)
		assert.Equal(t, "You'll Get", views[0].Tag)
		assert.Equal(t, "You'll Give", views[2].Tag)
	})
}

func TestCustomerDetail(t *testing.T) {
	svc, _ := newAnonymousSession(t)

	c := mustCreateCustomer(t, svc, "Raj", "1")

	older, err := svc.CreateTransaction(context.Background(), c.ID, decimal.RequireFromString("100"), ledger.TypeGiven, "",
		mustParseTime(t, "2024-03-01T00:00:00Z"))
	require.NoError(t, err)

	newer, err := svc.CreateTransaction(context.Background(), c.ID, decimal.RequireFromString("40"), ledger.TypeReceived, "",
		mustParseTime(t, "2024-03-05T00:00:00Z"))
	require.NoError(t, err)

	detail, err := svc.CustomerDetail(c.ID)
	require.NoError(t, err)

	assert.Equal(t, "60", detail.Balance.String())
	assert.Equal(t, "You'll Get", detail.Tag)

	require.Len(t, detail.Transactions, 2)
	assert.Equal(t, newer.ID, detail.Transactions[0].ID, "history is most recent first")
	assert.Equal(t, older.ID, detail.Transactions[1].ID)

	_, err = svc.CustomerDetail("missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTotals(t *testing.T) {
	svc, _ := newAnonymousSession(t)

	a := mustCreateCustomer(t, svc, "A", "1")
	b := mustCreateCustomer(t, svc, "B", "2")

	mustCreateTransaction(t, svc, a.ID, "350", ledger.TypeGiven)
	mustCreateTransaction(t, svc, b.ID, "120", ledger.TypeReceived)

	totals := svc.Totals()
	assert.Equal(t, "350", totals.Get.String())
	assert.Equal(t, "120", totals.Give.String())
	assert.Equal(t, "230", totals.Net.String())
}

func TestClearAll(t *testing.T) {
	svc, local := newAnonymousSession(t)

	c := mustCreateCustomer(t, svc, "Raj", "1")
	mustCreateTransaction(t, svc, c.ID, "10", ledger.TypeGiven)

	require.NoError(t, svc.ClearAll())
	assert.Empty(t, local.Customers())
	assert.Empty(t, local.Transactions())
}

func TestClearAll_RefusedWhileAuthenticated(t *testing.T) {
	f := newFixture(t)
	f.expectSubscriptions()

	_, err := f.svc.SignIn(context.Background(), "raj@example.com", "secret1")
	require.NoError(t, err)

	assert.Error(t, f.svc.ClearAll())
}

func mustParseTime(t *testing.T, value string) ledger.Time {
	t.Helper()

	parsed, err := ledger.ParseTime(value)
	require.NoError(t, err)

	return parsed
}
