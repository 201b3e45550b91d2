package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/carevault/carevault/pkg/identity"
	"github.com/carevault/carevault/pkg/token"
)

// TokenAuthenticator is middleware that validates bearer tokens
type TokenAuthenticator struct {
	Signer *token.Signer
}

// NewTokenAuthenticator creates a new bearer token authenticator middleware
func NewTokenAuthenticator(signer *token.Signer) *TokenAuthenticator {
	return &TokenAuthenticator{Signer: signer}
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the authenticated identity in the request context.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := a.Signer.Verify(tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired token"))
			return
		}

		id := identity.FromClaims(claims)
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id = id.WithRemoteIP(net.ParseIP(host))
		}

		ctx := identity.Set(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
