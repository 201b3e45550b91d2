// Package db provides database connection utilities for CareVault.
package db
