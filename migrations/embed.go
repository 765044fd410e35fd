// Package migrations holds the SQLite schema
package migrations

import "embed"

// FS contains the versioned schema files
//
//go:embed *.sql
var FS embed.FS
