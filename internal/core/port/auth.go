package port

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
)

type AuthService interface {
	Register(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	// Login returns a signed bearer token on success.
	Login(ctx context.Context, req *request.LoginRequest) (string, error)
}

// TokenIssuer mints and verifies stateless bearer tokens carrying the user
// id as the identity claim. Verify distinguishes structurally malformed
// tokens from invalid or expired ones.
type TokenIssuer interface {
	Issue(userID int) (string, error)
	Verify(token string) (int, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare reports whether plain matches the stored hash. It returns
	// false for malformed hashes, never an error.
	Compare(plain string, encrypted string) bool
}
