// Package migrations embeds the SQL migration files executed on startup
// through pkg/database.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
