// Package migrations embeds the goose SQL migrations, one directory per dialect.
package migrations

import "embed"

// Directories inside Migrations, per database dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
