package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khatapp/khata/internal/exchange"
	"github.com/khatapp/khata/internal/session"
)

type Handler struct {
	svc *session.Session
}

func NewHandler(svc *session.Session) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/json", h.exportJSON)
	r.Post("/json", h.importJSON)
	r.Get("/csv/customers", h.exportCustomersCSV)
	r.Get("/csv/transactions", h.exportTransactionsCSV)
	r.Post("/csv", h.importCSV)
	r.Delete("/", h.wipe)
}

func (h *Handler) exportJSON(w http.ResponseWriter, _ *http.Request) {
	data, err := h.svc.ExportJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment("khata_backup", "json"))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

func (h *Handler) importJSON(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ImportJSON(r.Context(), data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportCustomersCSV(w http.ResponseWriter, _ *http.Request) {
	data, err := h.svc.ExportCustomersCSV()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeCSV(w, "khata_customers", data)
}

func (h *Handler) exportTransactionsCSV(w http.ResponseWriter, _ *http.Request) {
	data, err := h.svc.ExportTransactionsCSV()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeCSV(w, "khata_transactions", data)
}

type importResultResponse struct {
	Kind    exchange.Kind `json:"kind"`
	Applied int           `json:"applied"`
	Skipped int           `json:"skipped"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.ImportCSV(r.Context(), file)
	if err != nil {
		if errors.Is(err, exchange.ErrUnrecognizedFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResultResponse{
		Kind:    result.Kind,
		Applied: result.Applied,
		Skipped: result.Skipped,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) wipe(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.ClearAll(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment(name, "csv"))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func attachment(name, ext string) string {
	return fmt.Sprintf("attachment; filename=\"%s_%s.%s\"", name, time.Now().Format("20060102"), ext)
}
