package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Firebase implements Service against the Firebase Identity Toolkit REST
// API (accounts:signUp / accounts:signInWithPassword).
type Firebase struct {
	client *resty.Client
	apiKey string

	mu        sync.Mutex
	current   *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

// Option configures a Firebase service.
type Option func(*Firebase)

// WithBaseURL overrides the Identity Toolkit endpoint (used in tests).
func WithBaseURL(url string) Option {
	return func(f *Firebase) {
		f.client.SetBaseURL(url)
	}
}

func NewFirebase(apiKey string, opts ...Option) *Firebase {
	f := &Firebase{
		client:    resty.New().SetBaseURL(defaultBaseURL),
		apiKey:    apiKey,
		listeners: make(map[int]func(*Identity)),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return f.authenticate(ctx, "accounts:signUp", email, password)
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return f.authenticate(ctx, "accounts:signInWithPassword", email, password)
}

func (f *Firebase) authenticate(ctx context.Context, endpoint, email, password string) (*Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var (
		success credentialsResponse
		failure errorResponse
	)

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("key", f.apiKey).
		SetBody(credentialsRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&success).
		SetError(&failure).
		Post("/" + endpoint)
	if err != nil {
		return nil, &AuthError{Code: "NETWORK_ERROR", Message: fmt.Sprintf("could not reach authentication service: %v", err)}
	}

	if resp.IsError() {
		return nil, providerError(failure.Error.Message)
	}

	id := &Identity{UID: success.LocalID, Email: success.Email}
	f.setCurrent(id)

	return id, nil
}

func (f *Firebase) SignOut(_ context.Context) error {
	f.setCurrent(nil)
	return nil
}

func (f *Firebase) Current() *Identity {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current
}

func (f *Firebase) OnAuthStateChanged(fn func(*Identity)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	current := f.current
	f.mu.Unlock()

	// First invocation is immediate, matching provider semantics.
	fn(current)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.listeners, id)
	}
}

func (f *Firebase) setCurrent(id *Identity) {
	f.mu.Lock()
	f.current = id

	listeners := make([]func(*Identity), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") || strings.TrimSpace(email) == "" {
		return &AuthError{Code: "INVALID_EMAIL", Message: "enter a valid email address"}
	}

	if len(password) < 6 {
		return &AuthError{Code: "WEAK_PASSWORD", Message: "password must be at least 6 characters"}
	}

	return nil
}

// providerError maps Identity Toolkit error codes onto readable causes.
// Unknown codes pass through as-is so the user still sees the real reason.
func providerError(code string) *AuthError {
	// Codes may carry a trailing explanation, e.g. "WEAK_PASSWORD : ...".
	normalized, _, _ := strings.Cut(code, " ")

	switch normalized {
	case "EMAIL_EXISTS":
		return &AuthError{Code: normalized, Message: "email already in use"}
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return &AuthError{Code: normalized, Message: "invalid email or password"}
	case "WEAK_PASSWORD":
		return &AuthError{Code: normalized, Message: "password must be at least 6 characters"}
	case "USER_DISABLED":
		return &AuthError{Code: normalized, Message: "this account has been disabled"}
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return &AuthError{Code: normalized, Message: "too many attempts, try again later"}
	case "":
		return &AuthError{Code: "UNKNOWN", Message: "authentication failed"}
	default:
		return &AuthError{Code: normalized, Message: code}
	}
}
