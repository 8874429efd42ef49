package query

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	TableDatabaseVersion = "database_version"
	currentDbVersion     = 2
)

func (db *Database) GetDbVersion() (int, error) {
	var dbVersion int
	query := "SELECT db_version FROM database_version LIMIT 1"
	err := db.Get(&dbVersion, query)
	if err != nil {
		return 0, fmt.Errorf("GetDbVersion: %w", err)
	}
	return dbVersion, nil
}

func (db *Database) TableExists(tableName string) (bool, error) {
	query := `
		SELECT count(name)
		FROM sqlite_master
		WHERE type='table' AND name=?
	`

	var count int
	err := db.QueryRow(query, tableName).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DefaultPath returns the database file under the user config directory,
// creating the directory when needed.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("DefaultPath: %w", err)
	}
	appDir := filepath.Join(configDir, "phishsafe")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("DefaultPath: %w", err)
	}
	return filepath.Join(appDir, "detections.db"), nil
}

// InitDatabase opens the database and brings its schema up to date.
func InitDatabase(driver, path string) (*Database, error) {
	db, err := Open(driver, path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the version table on a fresh database, then applies every
// step above the stored version.
func (db *Database) Migrate() error {
	exist, err := db.TableExists(TableDatabaseVersion)
	if err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	if !exist {
		if _, err := db.Exec(`CREATE TABLE database_version (db_version INTEGER DEFAULT 0)`); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
		if _, err := db.Exec(`INSERT INTO database_version VALUES(0)`); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
	}
	return db.updateDb()
}

var migrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			check_id TEXT NOT NULL UNIQUE,
			checked_at TEXT NOT NULL,
			recording BOOLEAN NOT NULL DEFAULT FALSE,
			matched_process TEXT NOT NULL DEFAULT '',
			keyword TEXT NOT NULL DEFAULT '',
			policy TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_checked_at ON detections(checked_at)`,
	},
	2: {
		`CREATE TABLE IF NOT EXISTS recorder_keywords (
			name TEXT PRIMARY KEY
		)`,
	},
}

func (db *Database) updateDb() error {
	dbVersion, err := db.GetDbVersion()
	if err != nil {
		return fmt.Errorf("updateDb: %w", err)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("updateDb: %w", err)
	}
	for v := dbVersion + 1; v <= currentDbVersion; v++ {
		for _, stmt := range migrations[v] {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("updateDb version %d: %w", v, err)
			}
		}
		if _, err := tx.Exec(`UPDATE database_version SET db_version=?`, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("updateDb version %d: %w", v, err)
		}
		log.Printf("db version up to %d", v)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("updateDb: error at commit: %w", err)
	}
	return nil
}
