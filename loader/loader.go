package loader

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// InitDatabase applies the schema and enables foreign-key enforcement.
// Statements are idempotent, so a restart against an existing file is
// safe.
func InitDatabase(db *sqlx.DB) error {
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return errors.Wrap(err, "failed to enable foreign keys")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
