package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	RegisterTestingT(t)

	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue(42)
	Expect(err).To(BeNil())
	Expect(token).NotTo(BeEmpty())

	userID, err := manager.Verify(token)
	Expect(err).To(BeNil())
	Expect(userID).To(Equal(42))
}

func TestVerifyGarbageIsMalformed(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Verify("garbage")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = manager.Verify("still.not-a.token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := manager.Issue(42)
	assert.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue(42)
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingIdentityClaim(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	token, err := raw.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}
