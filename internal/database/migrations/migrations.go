// Package migrations embeds the goose schema migrations for the uploads table.
//
// The sqlite and postgres directories hold the same schema expressed in each dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
