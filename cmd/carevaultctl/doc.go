// Package main implements carevaultctl, the CareVault command line interface.
//
// CareVault is a small patient record service. Registered users keep a set of
// patient records that only they can read or change. Access is granted by a
// signed bearer token issued at login.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: Storage interfaces and their gorm implementations
//   - pkg/token: Bearer token issuing and verification
//   - pkg/identity: Authenticated request identity
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/config: Configuration management
//   - pkg/audit: Audit trail for authentication and record access
//
// # Quick Start
//
// The server is run via the carevaultctl CLI:
//
//	# Generate a token signing key
//	export CAREVAULT_TOKEN_KEY="$(carevaultctl data-key generate)"
//
//	# Run database migrations
//	carevaultctl db migrate
//
//	# Create an account
//	carevaultctl user create alice
//
//	# Start the server
//	carevaultctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CAREVAULT_TOKEN_KEY: Base64-encoded 256-bit key for signing tokens
//   - CAREVAULT_CONFIG_PATH: Directory holding carevault.yml (default: /etc/carevault/config)
//   - CAREVAULT_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
//   - CAREVAULT_AUDIT_ENABLED: Set to "false" to disable the audit trail
//   - AUDIT_DATABASE_URL: Optional PostgreSQL database for persisting audit events
package main
