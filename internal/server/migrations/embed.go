// Package migrations holds the PostgreSQL schema of the punchkeeper server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
