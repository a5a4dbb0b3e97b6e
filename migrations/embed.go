// Package migrations embeds the goose SQL migrations, one directory per
// database driver.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
