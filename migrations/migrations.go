// Package migrations embeds the SQL schema applied by the database/sql backend.
package migrations

import "embed"

// FS holds the *.up.sql files in apply order.
//
//go:embed *.sql
var FS embed.FS
