// Package migrations holds the goose migrations of the postgres export
// schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
