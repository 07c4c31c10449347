package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khatapp/khata/internal/identity"
	"github.com/khatapp/khata/internal/session"
)

type Handler struct {
	svc *session.Session
}

func NewHandler(svc *session.Session) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signUp)
	r.Post("/signin", h.signIn)
	r.Post("/signout", h.signOut)
	r.Get("/me", h.me)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	UID           string `json:"uid,omitempty"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.svc.SignUp)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.svc.SignIn)
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password string) (*identity.Identity, error)) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ident, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(identityResponse{
		UID:           ident.UID,
		Email:         ident.Email,
		Authenticated: true,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, _ *http.Request) {
	resp := identityResponse{}

	if ident := h.svc.Current(); ident != nil {
		resp = identityResponse{UID: ident.UID, Email: ident.Email, Authenticated: true}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeAuthError translates provider errors into HTTP statuses: conflicts for
// duplicate accounts, 401 for bad credentials, 400 for rejected input.
func writeAuthError(w http.ResponseWriter, err error) {
	var authErr *identity.AuthError
	if !errors.As(err, &authErr) {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	status := http.StatusBadRequest

	switch authErr.Code {
	case "EMAIL_EXISTS":
		status = http.StatusConflict
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		status = http.StatusUnauthorized
	}

	http.Error(w, authErr.Message, status)
}
