package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never expose password hash in JSON
	VerifyCode       string    `json:"-"`
	VerifyCodeExpiry time.Time `json:"-"`
	IsVerified       bool      `json:"isVerified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
