package query

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Drivers accepted by Open. "sqlite" is the pure Go modernc driver, "sqlite3"
// the cgo one.
var Drivers = []string{"sqlite", "sqlite3"}

type Database struct {
	*sqlx.DB
}

func NewDatabase(db *sqlx.DB) *Database {
	return &Database{DB: db}
}

func Open(driver, dsn string) (*Database, error) {
	if !validDriver(driver) {
		return nil, fmt.Errorf("Open: unsupported driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	// sqlite serializes writers anyway, and ":memory:" databases are per connection
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}
	return NewDatabase(db), nil
}

func validDriver(driver string) bool {
	for _, d := range Drivers {
		if d == driver {
			return true
		}
	}
	return false
}
