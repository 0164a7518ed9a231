package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken means the token could not be decoded at all, or
	// decoded into the wrong claim shape. Maps to 422 at the HTTP boundary.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidToken covers bad signatures, expiry and every other
	// verification failure. Maps to 401.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. Tokens are
// stateless; expiry is the only invalidation mechanism.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *TokenManager) Issue(userID int) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

func (m *TokenManager) Verify(raw string) (int, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return 0, ErrMalformedToken
		}

		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return 0, ErrMalformedToken
	}

	return claims.UserID, nil
}
