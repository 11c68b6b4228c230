// Package database holds the schema migrations embedded into the binaries.
package database

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
