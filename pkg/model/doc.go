// Package model defines the database models for CareVault.
//
// This package contains GORM models that map to the CareVault PostgreSQL
// schema. Tables are created at server startup via AutoMigrate; the SQL
// files under db/migrations describe the same schema for operators who
// run migrations explicitly.
//
// # Core Models
//
//   - User: an account that can authenticate and own patient records
//   - Patient: a clinical record owned by exactly one user
package model
