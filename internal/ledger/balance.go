package ledger

import "github.com/shopspring/decimal"

// Totals aggregates all customer balances from the owner's point of view.
type Totals struct {
	// Get is the sum of positive balances: what customers owe the owner.
	Get decimal.Decimal `json:"get"`
	// Give is the sum of absolute negative balances: what the owner owes.
	Give decimal.Decimal `json:"give"`
	// Net is Get minus Give.
	Net decimal.Decimal `json:"net"`
}

// ComputeBalances derives the signed balance per customer id from the
// transaction log. Every customer gets an entry, zero if it has no
// transactions. A transaction referencing an unknown customer still gets a
// bucket under its customerId so a dangling reference never breaks callers.
func ComputeBalances(customers []Customer, transactions []Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(customers))

	for _, c := range customers {
		balances[c.ID] = decimal.Zero
	}

	for _, t := range transactions {
		switch t.Type {
		case TypeGiven:
			balances[t.CustomerID] = balances[t.CustomerID].Add(t.Amount)
		case TypeReceived:
			balances[t.CustomerID] = balances[t.CustomerID].Sub(t.Amount)
		}
	}

	return balances
}

// ComputeTotals splits the balances into what the owner will get and what
// the owner will give.
func ComputeTotals(balances map[string]decimal.Decimal) Totals {
	totals := Totals{Get: decimal.Zero, Give: decimal.Zero, Net: decimal.Zero}

	for _, b := range balances {
		if b.Sign() < 0 {
			totals.Give = totals.Give.Add(b.Neg())
		} else {
			totals.Get = totals.Get.Add(b)
		}
	}

	totals.Net = totals.Get.Sub(totals.Give)

	return totals
}
