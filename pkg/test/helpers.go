package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/mattn/go-sqlite3"

	"todoapi/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it sees go.mod, so tests
// resolve the migrations directory regardless of which package runs them.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory sqlite database with the real migrations
// applied. Each call returns an isolated database.
func InitTestDB() *sqlite.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations", "sqlite")

	if err := sqlite.RunMigrations(db, migrationsPath); err != nil {
		log.Fatal(err)
	}

	return sqlite.Wrap(db)
}
