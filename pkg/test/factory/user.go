package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"

	"todoapi/internal/core/domain"
)

// DefaultPassword is the plaintext behind every factory-built user, so
// login flows in tests have a known credential.
const DefaultPassword = "password123"

func NewUser(customData ...map[string]any) domain.User {
	instance := fab.New(domain.User{})

	hasEncryptedPassword := false

	for _, data := range customData {
		if _, exists := data["EncryptedPassword"]; exists {
			hasEncryptedPassword = true
			break
		}
	}

	if !hasEncryptedPassword {
		encrypted, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

		customData = append(customData, map[string]any{
			"EncryptedPassword": string(encrypted),
		})
	}

	return instance.Build(customData...)
}
