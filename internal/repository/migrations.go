package repository

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate porta lo schema del database all'ultima versione. Viene
// eseguita all'avvio dell'API prima di accettare richieste.
func Migrate(dbpool *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(dbpool, "migrations")
}
