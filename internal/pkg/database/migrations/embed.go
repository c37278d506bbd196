// Package migrations embeds the goose SQL migrations, one directory per
// storage backend.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
