package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault/pkg/identity"
	"github.com/carevault/carevault/pkg/token"
)

func newTestSigner(t *testing.T) *token.Signer {
	t.Helper()
	key := make([]byte, token.MinKeyLen)
	for i := range key {
		key[i] = byte(i)
	}
	signer, err := token.NewSigner(key, 8*time.Minute)
	require.NoError(t, err)
	return signer
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	auth := NewTokenAuthenticator(newTestSigner(t))
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/patients", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization missing", w.Body.String())
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	auth := NewTokenAuthenticator(newTestSigner(t))
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	for _, header := range []string{"Basic abc123", "Bearer", "just-a-token"} {
		req := httptest.NewRequest("GET", "/patients", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	auth := NewTokenAuthenticator(newTestSigner(t))
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/patients", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", w.Body.String())
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	signer := newTestSigner(t)
	auth := NewTokenAuthenticator(signer)
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tokenString, _, err := signer.Issue(1, "alice", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewarePopulatesIdentity(t *testing.T) {
	signer := newTestSigner(t)
	auth := NewTokenAuthenticator(signer)

	var seen *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		require.True(t, ok, "expected identity in context")
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tokenString, _, err := signer.Issue(42, "alice", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/patients", nil)
	req.RemoteAddr = "10.0.0.9:52114"
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint(42), seen.UserID)
	assert.Equal(t, "alice", seen.Username)
	assert.Equal(t, "10.0.0.9", seen.RemoteIP.String())
}
