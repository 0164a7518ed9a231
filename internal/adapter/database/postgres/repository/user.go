package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"todoapi/internal/adapter/database/postgres"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *postgres.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := "SELECT id, email, encrypted_password, created_at FROM users WHERE email = $1 LIMIT 1"

	ur.telemetry.RecordRepositoryQuery(ctx, "GetByEmail", "user", query, []interface{}{email})

	var user domain.User

	err := ur.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.EncryptedPassword, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		slog.Error("Error getting user by email", "error", err)
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "users",
	})
	defer span.End()

	query := "INSERT INTO users (email, encrypted_password, created_at) VALUES ($1, $2, $3) RETURNING id"

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, []interface{}{user.Email})

	err := ur.db.QueryRow(ctx, query, user.Email, user.EncryptedPassword, user.CreatedAt).
		Scan(&user.ID)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrEmailTaken
		}

		span.RecordError(err)
		span.SetStatus("error", err.Error())
		slog.Error("Error creating user", "error", err)

		return domain.User{}, err
	}

	span.SetAttributes(map[string]interface{}{"user.id": user.ID})

	return user, nil
}
