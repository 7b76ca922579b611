// Package migrations embeds the goose SQL migrations, one directory per
// supported database dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS
