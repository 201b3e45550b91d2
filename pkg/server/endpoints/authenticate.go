package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/audit"
	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/server/store"
	"github.com/carevault/carevault/pkg/token"
)

// LoginRequest is the body of POST /authn/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the success body of POST /authn/login
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// SignupRequest is the body of POST /authn/signup
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the account summary returned by POST /authn/signup
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// RegisterAuthenticateEndpoints registers the authentication API endpoints
func RegisterAuthenticateEndpoints(s *server.Server) {
	users := s.UsersStore
	cfg := s.Config
	signer := s.Signer

	// POST /authn/login - Exchange credentials for a bearer token
	s.Router.HandleFunc("/authn/login", handleLogin(users, signer)).Methods("POST")

	// POST /authn/signup - Create an account
	s.Router.HandleFunc("/authn/signup", handleSignup(users, cfg)).Methods("POST")

	// PUT /authn/password - Update password (requires Basic Auth)
	s.Router.HandleFunc("/authn/password", handlePasswordChange(users, cfg)).Methods("PUT")
}

func handleLogin(users store.UsersStore, signer *token.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		// Unknown user and wrong password produce the same response so
		// the endpoint does not leak which usernames exist.
		user, err := users.GetByUsername(req.Username)
		if err != nil {
			audit.Log(audit.LoginEvent{
				Username:     req.Username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: "unknown user",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.CheckPassword(req.Password) {
			audit.Log(audit.LoginEvent{
				Username:     req.Username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: "invalid password",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		tokenString, expiresAt, err := signer.Issue(user.ID, user.Username, time.Now())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		audit.Log(audit.LoginEvent{
			Username: user.Username,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, TokenResponse{
			Token:     tokenString,
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		})
	}
}

func handleSignup(users store.UsersStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.SignupEnabled {
			respondWithError(w, http.StatusNotFound, "Not found")
			return
		}

		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if !model.ValidUsername(req.Username) {
			respondWithError(w, http.StatusBadRequest, "username must be 3-60 lowercase letters, digits, '.', '_' or '-'")
			return
		}
		if len(req.Password) < cfg.PasswordMinLength {
			respondWithError(w, http.StatusBadRequest, "password is too short")
			return
		}

		if users.UsernameTaken(req.Username) {
			audit.Log(audit.SignupEvent{
				Username:     req.Username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: "username is already registered",
			})
			respondWithError(w, http.StatusConflict, "username is already registered")
			return
		}

		user := model.User{Username: req.Username}
		if err := user.SetPassword(req.Password, cfg.BcryptCost); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := users.CreateUser(&user); err != nil {
			// A concurrent signup can win the race between UsernameTaken
			// and the insert; the unique index reports it here.
			if errors.Is(err, store.ErrDuplicateUsername) {
				audit.Log(audit.SignupEvent{
					Username:     req.Username,
					ClientIP:     clientIP(r),
					Success:      false,
					ErrorMessage: "username is already registered",
				})
				respondWithError(w, http.StatusConflict, "username is already registered")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		audit.Log(audit.SignupEvent{
			Username: user.Username,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusCreated, UserResponse{
			ID:       user.ID,
			Username: user.Username,
		})
	}
}

func handlePasswordChange(users store.UsersStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The caller proves the current password via Basic Auth; the new
		// password is the raw request body.
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="CareVault"`)
			respondWithError(w, http.StatusUnauthorized, "Authorization required")
			return
		}

		user, err := users.GetByUsername(username)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.CheckPassword(password) {
			audit.Log(audit.PasswordEvent{
				Username:     username,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: "invalid current password",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		newPassword, err := io.ReadAll(r.Body)
		defer r.Body.Close()
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		if len(newPassword) < cfg.PasswordMinLength {
			respondWithError(w, http.StatusBadRequest, "password is too short")
			return
		}

		if err := user.SetPassword(string(newPassword), cfg.BcryptCost); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := users.UpdatePassword(user.ID, user.PasswordHash); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to update password")
			return
		}

		audit.Log(audit.PasswordEvent{
			Username: user.Username,
			ClientIP: clientIP(r),
			Success:  true,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
