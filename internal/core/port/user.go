package port

import (
	"context"

	"todoapi/internal/core/domain"
)

type UserRepository interface {
	// GetByEmail returns domain.ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Create returns domain.ErrEmailTaken when the email is already
	// registered. The storage unique index is the source of truth.
	Create(ctx context.Context, user domain.User) (domain.User, error)
}
