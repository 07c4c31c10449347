package customer

import (
	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/ledger"
	"github.com/khatapp/khata/internal/session"
)

type customerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type viewResponse struct {
	customerResponse
	Balance decimal.Decimal `json:"balance"`
	Tag     string          `json:"tag"`
}

type detailResponse struct {
	viewResponse
	Transactions []transactionResponse `json:"transactions"`
}

type transactionResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Type       ledger.Type     `json:"type"`
	Note       string          `json:"note,omitempty"`
	Date       string          `json:"date"`
}

func toCustomerResponse(c ledger.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.String(),
	}
}

func toViewResponse(v session.CustomerView) viewResponse {
	return viewResponse{
		customerResponse: toCustomerResponse(v.Customer),
		Balance:          v.Balance,
		Tag:              v.Tag,
	}
}

func toViewResponseList(views []session.CustomerView) []viewResponse {
	responses := make([]viewResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, toViewResponse(v))
	}

	return responses
}

func toDetailResponse(d *session.CustomerDetail) detailResponse {
	return detailResponse{
		viewResponse: toViewResponse(d.CustomerView),
		Transactions: toTransactionResponseList(d.Transactions),
	}
}

func toTransactionResponseList(transactions []ledger.Transaction) []transactionResponse {
	responses := make([]transactionResponse, 0, len(transactions))

	for _, t := range transactions {
		responses = append(responses, transactionResponse{
			ID:         t.ID,
			CustomerID: t.CustomerID,
			Amount:     t.Amount,
			Type:       t.Type,
			Note:       t.Note,
			Date:       t.Date.String(),
		})
	}

	return responses
}
