// Package config manages CareVault configuration.
//
// Settings are resolved in three layers: built-in defaults, then the
// carevault.yml config file, then CAREVAULT_* environment variables.
// Each attribute remembers which layer supplied its value so that
// "carevaultctl configuration show" can report the source.
package config
