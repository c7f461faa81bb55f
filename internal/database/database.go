package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and applies the goose migrations found in
// migrationsDir. A local file (or ":memory:") is used when primaryURL is empty,
// otherwise the hosted Turso database at primaryURL.
// The returned teardown closes the connection pool.
func InitDB(dbPath, primaryURL, authToken, migrationsDir string) (*sql.DB, func(), error) {
	db, err := open(dbPath, primaryURL, authToken)
	if err != nil {
		return nil, nil, err
	}
	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	if err := migrate(db, migrationsDir); err != nil {
		teardown()
		return nil, nil, err
	}
	log.Info("Database initialized successfully")
	return db, teardown, nil
}

func open(dbPath, primaryURL, authToken string) (*sql.DB, error) {
	if primaryURL == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// An in-memory database lives in a single connection.
		db.SetMaxOpenConns(1)
		return db, nil
	}

	log.Info("Initializing Turso database", "url", primaryURL)
	db, err := sql.Open("libsql", primaryURL+"?authToken="+authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", primaryURL, err)
	}
	return db, nil
}

func migrate(db *sql.DB, dir string) error {
	goose.SetLogger(log.Default())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations from %s: %w", dir, err)
	}
	return nil
}
