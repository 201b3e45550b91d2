package endpoints

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/server/store"
)

//go:embed api.md
var apiOverview []byte

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthErrorResponse represents an error response from /health
type HealthErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	healthStore := s.HealthStore

	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity check (no auth required)
	s.Router.HandleFunc("/health", handleHealth(healthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("CAREVAULT_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
			return
		}

		var body bytes.Buffer
		if err := md.Convert(apiOverview, &body); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to render status page")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>CareVault Status</title>
  </head>
  <body>
`))
		_, _ = w.Write(body.Bytes())
		_, _ = w.Write([]byte(`
    <footer>
      <p>CareVault version ` + version + `</p>
    </footer>
  </body>
</html>
`))
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthErrorResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "ok",
		})
	}
}
