// Package db holds the SQL schema migrations.
package db

import "embed"

// Migrations contains migrations/*.sql for builds with embedded migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
