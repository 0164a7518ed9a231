package domain

import (
	"time"
)

type User struct {
	ID                int
	Email             string `validate:"required,max=255"`
	EncryptedPassword string `validate:"required"`
	CreatedAt         time.Time
}
