package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	sqlite3 "github.com/mattn/go-sqlite3"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.
		Select("id", "email", "encrypted_password", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "GetByEmail", "user", query, args)

	var user domain.User

	row := ur.db.QueryRowContext(ctx, query, args...)

	err = row.Scan(&user.ID, &user.Email, &user.EncryptedPassword, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
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
		"db.system": "sqlite",
		"db.table":  "users",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := ur.db.QueryBuilder.
		Insert("users").
		Columns("email", "encrypted_password", "created_at").
		Values(user.Email, user.EncryptedPassword, user.CreatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, args)

	result, err := ur.db.ExecContext(ctx, query, args...)

	if err != nil {
		// The unique index on email is the single source of truth for
		// duplicate registration, even under concurrent requests.
		var sqliteErr sqlite3.Error

		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintUnique) {
			ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), domain.ErrEmailTaken)
			return domain.User{}, domain.ErrEmailTaken
		}

		span.RecordError(err)
		span.SetStatus("error", err.Error())
		slog.Error("Error creating user", "error", err)

		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, err
	}

	user.ID = int(id)

	span.SetAttributes(map[string]interface{}{"user.id": user.ID})
	ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), nil)

	return user, nil
}
