package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/ledger"
)

type transactionResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Type       ledger.Type     `json:"type"`
	Note       string          `json:"note,omitempty"`
	Date       string          `json:"date"`
	CreatedAt  string          `json:"createdAt"`
}

func toResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Amount:     t.Amount,
		Type:       t.Type,
		Note:       t.Note,
		Date:       t.Date.String(),
		CreatedAt:  t.CreatedAt.String(),
	}
}
