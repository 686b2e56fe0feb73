package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"valid simple", "alice", nil},
		{"valid with dot", "alice.b", nil},
		{"valid with underscore", "alice_b", nil},
		{"valid minimum length", "ab", nil},
		{"valid maximum length", "abcdefghij0123456789", nil},
		{"too short", "a", ErrUsernameTooShort},
		{"empty", "", ErrUsernameTooShort},
		{"too long", "abcdefghij01234567890", ErrUsernameTooLong},
		{"space", "alice b", ErrUsernameCharset},
		{"symbol", "alice!", ErrUsernameCharset},
		{"leading dot", ".alice", ErrUsernameDots},
		{"trailing dot", "alice.", ErrUsernameDots},
		{"doubled dots", "ali..ce", ErrUsernameDots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanonicalUsername(t *testing.T) {
	assert.Equal(t, "alice", CanonicalUsername("  Alice "))
	assert.Equal(t, "bob.c", CanonicalUsername("BOB.C"))
}
