package http

import (
	"context"
	"fmt"

	"todoapi/internal/adapter/cache"
	"todoapi/internal/adapter/database/postgres"
	pgrepository "todoapi/internal/adapter/database/postgres/repository"
	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/internal/core/util"
	"todoapi/pkg/auth"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository

	AuthUseCase port.AuthService
	TodoUseCase port.TodoService

	Tokens port.TokenIssuer

	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler

	closers []func() error
}

// NewContainer wires repositories, services and handlers. DATABASE_URL
// selects the postgres backend; otherwise the sqlite file is used.
func NewContainer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*Container, error) {
	container := &Container{}

	probe := telemetry.NewNoOpProbe()

	if cfg.TracingEnabled {
		probe = telemetry.NewOtelProbe("todoapi")
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, cfg.MigrationsPath)

		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}

		container.closers = append(container.closers, func() error {
			db.Close()
			return nil
		})

		container.UserRepo = pgrepository.NewUserRepository(db, probe)
		container.TodoRepo = pgrepository.NewTodoRepository(db, probe)
	} else {
		db, err := sqlite.NewDB(cfg.DatabasePath, cfg.MigrationsPath)

		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}

		container.closers = append(container.closers, db.Close)

		container.UserRepo = repository.NewUserRepository(db, probe)
		container.TodoRepo = repository.NewTodoRepository(db, probe)
	}

	container.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	hasher := util.NewBcryptHasher()

	container.AuthUseCase = service.NewAuthService(container.UserRepo, hasher, container.Tokens, probe)
	container.TodoUseCase = service.NewTodoService(container.TodoRepo, probe)

	container.AuthHandler = handler.NewAuthHandler(container.AuthUseCase, log)
	container.TodoHandler = handler.NewTodoHandler(container.TodoUseCase, log)

	return container, nil
}

// NewRateLimiterStore picks the counter backend: redis when REDIS_URL is
// set, in-process otherwise.
func NewRateLimiterStore(cfg *config.AppConfig) (middleware.CounterStore, func() error, error) {
	if cfg.RedisURL == "" {
		return middleware.NewMemoryCounterStore(), nil, nil
	}

	store, err := cache.NewRedisCounterStore(cfg.RedisURL)

	if err != nil {
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}

	return store, store.Close, nil
}

func (c *Container) Close() error {
	var firstErr error

	for _, closer := range c.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
