// Package migrations embeds the SQL schema migrations so the binary can apply
// them at startup without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Path is the directory name used by the iofs migration source.
const Path = "."
