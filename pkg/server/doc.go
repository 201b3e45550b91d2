// Package server provides the HTTP server for the CareVault API.
//
// This package implements the core HTTP server that handles all CareVault
// REST API requests. It uses gorilla/mux for routing and provides
// middleware for authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, signer, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - Config: resolved service configuration
//   - Signer: bearer token issuer/verifier
//   - UsersStore, PatientsStore, HealthStore: storage interfaces
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers all CareVault API endpoints including:
//
//   - /authn/login - credential exchange for a bearer token
//   - /authn/signup - account creation
//   - /authn/password - password change
//   - /patients - patient record CRUD
//   - /whoami - token introspection
//   - /health - liveness and database connectivity
package server
