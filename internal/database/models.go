package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun table model backing internal/user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Username         string    `bun:"username,notnull,unique"`
	Email            string    `bun:"email,notnull,unique"`
	PasswordHash     string    `bun:"password_hash,notnull"`
	VerifyCode       string    `bun:"verify_code,notnull"`
	VerifyCodeExpiry time.Time `bun:"verify_code_expiry,notnull"`
	IsVerified       bool      `bun:"is_verified,notnull,default:false"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Transformation is the bun table model backing internal/transform. One row
// per successful provider call, owned by exactly one user.
type Transformation struct {
	bun.BaseModel `bun:"table:transformations,alias:t"`

	ID                   uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID               uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Mode                 string    `bun:"mode,notnull"`
	OriginalContent      string    `bun:"original_content,notnull"`
	TransformedContent   string    `bun:"transformed_content,notnull"`
	OriginalWordCount    int       `bun:"original_word_count,notnull"`
	TransformedWordCount int       `bun:"transformed_word_count,notnull"`
	CreatedAt            time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
