package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/port"
)

// emailPattern is the registration contract: letters, digits and ._%+- in
// the local part, dotted domain, TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 6

type AuthService struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	tokens    port.TokenIssuer
	telemetry port.Telemetry
}

func NewAuthService(repo port.UserRepository, hasher port.PasswordHasher, tokens port.TokenIssuer, telemetry port.Telemetry) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		telemetry: telemetry,
	}
}

func (as *AuthService) Register(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "Register", 0)
	defer span.End()

	if req.Email == "" || req.Password == "" {
		return nil, domain.NewValidationError("email", "Email and password are required")
	}

	if !emailPattern.MatchString(req.Email) {
		return nil, domain.NewValidationError("email", "Invalid email format")
	}

	if len(req.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "Password must be at least 6 characters long")
	}

	encrypted, err := as.hasher.Hash(req.Password)

	if err != nil {
		slog.Error("Auth#Register", "hash", err)
		return nil, err
	}

	user := domain.User{
		Email:             req.Email,
		EncryptedPassword: encrypted,
		CreatedAt:         time.Now(),
	}

	saved, err := as.repo.Create(ctx, user)

	if err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			as.telemetry.RecordError(ctx, "auth.Register", err)
		}

		return nil, err
	}

	as.telemetry.RecordBusinessEvent(ctx, "registered", "user", strconv.Itoa(saved.ID), saved.ID)

	return &saved, nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (string, error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "Login", 0)
	defer span.End()

	if req.Email == "" || req.Password == "" {
		return "", domain.NewValidationError("email", "Email and password are required")
	}

	// Unknown email and wrong password collapse into the same error so the
	// response never reveals whether an account exists.
	user, err := as.repo.GetByEmail(ctx, req.Email)

	if err != nil {
		slog.Info("Auth#Login", "get_by_email", err)
		return "", domain.ErrInvalidCredentials
	}

	if !as.hasher.Compare(req.Password, user.EncryptedPassword) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := as.tokens.Issue(user.ID)

	if err != nil {
		slog.Error("Auth#Login", "issue_token", err)
		return "", err
	}

	as.telemetry.RecordBusinessEvent(ctx, "logged_in", "user", strconv.Itoa(user.ID), user.ID)

	return token, nil
}
