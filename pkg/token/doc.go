// Package token issues and verifies the bearer tokens used to
// authenticate API requests.
//
// Tokens are HS256 JWTs signed with the key from CAREVAULT_TOKEN_KEY.
// The subject claim carries the username and the private "uid" claim
// carries the numeric user ID, so handlers can scope queries without a
// second lookup.
package token
