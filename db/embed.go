// Package db embeds the SQL migration files so a single carevaultctl
// binary can migrate a database without the sources on disk.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
