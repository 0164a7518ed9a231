package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens the sqlite database at path, runs migrations and wraps the
// connection with otel instrumentation and zerolog query logging.
func NewDB(path string, migrationsPath string) (*DB, error) {
	if migrationsPath == "" {
		migrationsPath = "db/migrations/sqlite"
	}

	migrationDB, err := sql.Open("sqlite3", path)

	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := RunMigrations(migrationDB, migrationsPath); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open("sqlite3", path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoapi"),
	)

	if err != nil {
		return nil, fmt.Errorf("open instrumented sqlite database: %w", err)
	}

	logged := sqldblogger.OpenDriver(path, sqlDB.Driver(), zerologadapter.New(zerolog.New(os.Stdout)))
	sqlDB.Close()

	// Single writer: sqlite serializes writes anyway, and one connection
	// avoids SQLITE_BUSY under concurrent requests.
	logged.SetMaxOpenConns(1)
	logged.SetMaxIdleConns(1)
	logged.SetConnMaxLifetime(5 * time.Minute)

	return Wrap(logged), nil
}

// Wrap builds the DB handle around an already-open connection. Used by the
// test helpers with an in-memory database.
func Wrap(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
