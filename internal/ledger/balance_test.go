package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeBalances(t *testing.T) {
	customers := []ledger.Customer{
		{ID: "c1", Name: "Raj"},
		{ID: "c2", Name: "Meena"},
		{ID: "c3", Name: "NoActivity"},
	}

	transactions := []ledger.Transaction{
		{ID: "t1", CustomerID: "c1", Type: ledger.TypeGiven, Amount: dec("500")},
		{ID: "t2", CustomerID: "c1", Type: ledger.TypeReceived, Amount: dec("200")},
		{ID: "t3", CustomerID: "c1", Type: ledger.TypeGiven, Amount: dec("50")},
		{ID: "t4", CustomerID: "c2", Type: ledger.TypeReceived, Amount: dec("120")},
		// Dangling reference: customer was deleted but the entry survived in memory.
		{ID: "t5", CustomerID: "ghost", Type: ledger.TypeGiven, Amount: dec("10")},
	}

	balances := ledger.ComputeBalances(customers, transactions)

	require.Len(t, balances, 4)
	assert.True(t, balances["c1"].Equal(dec("350")), "got %s", balances["c1"])
	assert.True(t, balances["c2"].Equal(dec("-120")), "got %s", balances["c2"])
	assert.True(t, balances["c3"].Equal(decimal.Zero))
	assert.True(t, balances["ghost"].Equal(dec("10")), "orphan transactions keep their own bucket")
}

func TestComputeBalances_Deterministic(t *testing.T) {
	customers := []ledger.Customer{{ID: "a"}, {ID: "b"}}
	transactions := []ledger.Transaction{
		{CustomerID: "a", Type: ledger.TypeGiven, Amount: dec("12.34")},
		{CustomerID: "b", Type: ledger.TypeReceived, Amount: dec("0.66")},
		{CustomerID: "a", Type: ledger.TypeReceived, Amount: dec("2.34")},
	}

	first := ledger.ComputeBalances(customers, transactions)
	second := ledger.ComputeBalances(customers, transactions)

	require.Len(t, second, len(first))

	var sum, givenMinusReceived decimal.Decimal
	for id, b := range first {
		assert.True(t, b.Equal(second[id]))

		sum = sum.Add(b)
	}

	for _, tx := range transactions {
		if tx.Type == ledger.TypeGiven {
			givenMinusReceived = givenMinusReceived.Add(tx.Amount)
		} else {
			givenMinusReceived = givenMinusReceived.Sub(tx.Amount)
		}
	}

	assert.True(t, sum.Equal(givenMinusReceived), "sum of balances must equal given minus received")
}

func TestComputeTotals(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"c": dec("350"),
		"d": dec("-120"),
	}

	totals := ledger.ComputeTotals(balances)

	assert.True(t, totals.Get.Equal(dec("350")), "got %s", totals.Get)
	assert.True(t, totals.Give.Equal(dec("120")), "got %s", totals.Give)
	assert.True(t, totals.Net.Equal(dec("230")), "got %s", totals.Net)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ledger.ComputeTotals(map[string]decimal.Decimal{})

	assert.True(t, totals.Get.IsZero())
	assert.True(t, totals.Give.IsZero())
	assert.True(t, totals.Net.IsZero())
}

func TestBalanceTag(t *testing.T) {
	assert.Equal(t, "You'll Get", ledger.BalanceTag(dec("350")))
	assert.Equal(t, "You'll Give", ledger.BalanceTag(dec("-0.01")))
	assert.Equal(t, "Settled", ledger.BalanceTag(decimal.Zero))
}
