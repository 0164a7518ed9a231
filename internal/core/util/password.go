package util

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements the password hasher port. Each call salts
// independently, so two hashes of the same input differ.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func (h *BcryptHasher) Compare(plain string, encrypted string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(plain)) == nil
}
