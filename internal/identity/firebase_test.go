package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/identity"
)

func authServer(t *testing.T, handler func(endpoint string, w http.ResponseWriter)) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")

		endpoint := strings.TrimPrefix(r.URL.Path, "/")
		handler(endpoint, w)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func TestFirebase_SignIn(t *testing.T) {
	ts := authServer(t, func(endpoint string, w http.ResponseWriter) {
		assert.Equal(t, "accounts:signInWithPassword", endpoint)

		json.NewEncoder(w).Encode(map[string]string{
			"localId": "uid-1",
			"email":   "raj@example.com",
			"idToken": "token",
		})
	})

	svc := identity.NewFirebase("test-key", identity.WithBaseURL(ts.URL))

	id, err := svc.SignIn(context.Background(), "raj@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UID)
	assert.Equal(t, "raj@example.com", id.Email)
	assert.Equal(t, id, svc.Current())
}

func TestFirebase_ProviderErrors(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		wantMessage string
	}{
		{name: "EmailExists", code: "EMAIL_EXISTS", wantMessage: "email already in use"},
		{name: "InvalidCredentials", code: "INVALID_LOGIN_CREDENTIALS", wantMessage: "invalid email or password"},
		{name: "WeakPassword", code: "WEAK_PASSWORD : Password should be at least 6 characters", wantMessage: "password must be at least 6 characters"},
		{name: "UnknownPassesThrough", code: "OPERATION_NOT_ALLOWED", wantMessage: "OPERATION_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := authServer(t, func(_ string, w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": tt.code},
				})
			})

			svc := identity.NewFirebase("test-key", identity.WithBaseURL(ts.URL))

			_, err := svc.SignUp(context.Background(), "raj@example.com", "secret1")

			var authErr *identity.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantMessage, authErr.Message)
			assert.Nil(t, svc.Current())
		})
	}
}

func TestFirebase_LocalValidation(t *testing.T) {
	svc := identity.NewFirebase("test-key")

	_, err := svc.SignUp(context.Background(), "not-an-email", "secret1")

	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "INVALID_EMAIL", authErr.Code)

	_, err = svc.SignIn(context.Background(), "raj@example.com", "12345")
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "WEAK_PASSWORD", authErr.Code)
}

func TestFirebase_OnAuthStateChanged(t *testing.T) {
	ts := authServer(t, func(_ string, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]string{"localId": "uid-1", "email": "raj@example.com"})
	})

	svc := identity.NewFirebase("test-key", identity.WithBaseURL(ts.URL))

	var seen []*identity.Identity

	unsubscribe := svc.OnAuthStateChanged(func(id *identity.Identity) {
		seen = append(seen, id)
	})

	// Fired immediately with the current (nil) identity.
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := svc.SignIn(context.Background(), "raj@example.com", "secret1")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "uid-1", seen[1].UID)

	require.NoError(t, svc.SignOut(context.Background()))
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	unsubscribe()
	_, _ = svc.SignIn(context.Background(), "raj@example.com", "secret1")
	assert.Len(t, seen, 3, "removed listener must not fire")
}
