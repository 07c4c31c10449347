package report

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/session"
)

type Handler struct {
	svc *session.Session
}

func NewHandler(svc *session.Session) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/balances", h.balances)
	r.Get("/totals", h.totals)
}

type totalsResponse struct {
	Get  decimal.Decimal `json:"get"`
	Give decimal.Decimal `json:"give"`
	Net  decimal.Decimal `json:"net"`
}

func (h *Handler) balances(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Balances()); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) totals(w http.ResponseWriter, _ *http.Request) {
	totals := h.svc.Totals()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(totalsResponse{
		Get:  totals.Get,
		Give: totals.Give,
		Net:  totals.Net,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
