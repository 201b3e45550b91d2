// Package store defines the storage interfaces used by the HTTP
// endpoints. The GORM implementations live in the gorm subpackage;
// tests substitute mocks.
package store
