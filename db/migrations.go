package db

import "embed"

// Migrations holds the goose SQL files applied at startup and by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
