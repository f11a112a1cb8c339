// Package migrations embeds the SQL schema so the binary can migrate
// without a checkout on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
