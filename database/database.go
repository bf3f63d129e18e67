package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"magazyn/model"
)

// Open connects to the SQLite store. WAL and a busy timeout keep
// concurrent sessions from tripping over short write locks.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(model.ErrStoreUnavailable, err.Error())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(model.ErrStoreUnavailable, err.Error())
	}
	return db, nil
}

func isForeignKeyViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
