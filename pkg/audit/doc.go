// Package audit provides audit logging for CareVault operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, password changes, and patient
// record access.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Login events (success/failure)
//   - Signup events
//   - Password change events
//   - Patient record events (create/fetch/update/delete)
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Username: username, ClientIP: ip, Success: true})
//
// Events are written to stdout in RFC5424 syslog format. When
// AUDIT_DATABASE_URL is set they are additionally persisted to a messages
// table for later review.
package audit
