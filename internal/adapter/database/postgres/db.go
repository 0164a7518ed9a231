package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type DB struct {
	*pgxpool.Pool
}

// NewDB connects a pgx pool to url and runs migrations over a short-lived
// database/sql connection.
func NewDB(ctx context.Context, url string, migrationsPath string) (*DB, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	if migrationsPath == "" {
		migrationsPath = "db/migrations/postgres"
	}

	if err := RunMigrations(url, migrationsPath); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, url)

	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func RunMigrations(url string, migrationsPath string) error {
	migrationDB, err := sql.Open("pgx", url)

	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	defer migrationDB.Close()

	driver, err := migratepg.WithInstance(migrationDB, &migratepg.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
