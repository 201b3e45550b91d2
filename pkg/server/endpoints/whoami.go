package endpoints

import (
	"net/http"

	"github.com/carevault/carevault/pkg/identity"
	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/server/middleware"
)

// WhoamiResponse describes the authenticated caller
type WhoamiResponse struct {
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
	TokenIat int64  `json:"token_iat"`
	ClientIP string `json:"client_ip,omitempty"`
}

// RegisterWhoamiEndpoint registers the token introspection endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	tokenMiddleware := middleware.NewTokenAuthenticator(s.Signer)

	// GET /whoami - Describe the caller of a valid token
	s.Router.Handle("/whoami", tokenMiddleware.Middleware(handleWhoami())).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		resp := WhoamiResponse{
			Username: id.Username,
			UserID:   id.UserID,
			TokenIat: id.IssuedAt.Unix(),
		}
		if id.RemoteIP != nil {
			resp.ClientIP = id.RemoteIP.String()
		}

		respondWithJSON(w, http.StatusOK, resp)
	}
}
