package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWhoamiEndpoint(t *testing.T) {
	s := newTestEndpointServer(nil, nil, nil)
	RegisterWhoamiEndpoint(s)

	t.Run("whoami with valid token", func(t *testing.T) {
		issuedAt := time.Now()
		tokenString, _, err := s.Signer.Issue(7, "alice", issuedAt)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		req.RemoteAddr = "192.0.2.10:51234"
		w := httptest.NewRecorder()

		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var result WhoamiResponse
		err = json.Unmarshal(w.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, "alice", result.Username)
		assert.Equal(t, uint(7), result.UserID)
		assert.Equal(t, issuedAt.Unix(), result.TokenIat)
		assert.Equal(t, "192.0.2.10", result.ClientIP)
	})

	t.Run("whoami without token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		w := httptest.NewRecorder()

		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("whoami with garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
