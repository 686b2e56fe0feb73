package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrUsernameTooShort = errors.New("username must be at least 2 characters")
	ErrUsernameTooLong  = errors.New("username must not exceed 20 characters")
	ErrUsernameCharset  = errors.New("username may only contain letters, digits, dots and underscores")
	ErrUsernameDots     = errors.New("username must not start or end with a dot or contain consecutive dots")
)

var usernameCharsetRegex = regexp.MustCompile(`^[A-Za-z0-9._]+$`)

// ValidateUsername checks the canonical (lowercased, trimmed) form of a
// username against the account rules: 2-20 characters, restricted charset,
// and no leading, trailing, or doubled dots.
func ValidateUsername(username string) error {
	if len(username) < 2 {
		return ErrUsernameTooShort
	}
	if len(username) > 20 {
		return ErrUsernameTooLong
	}
	if !usernameCharsetRegex.MatchString(username) {
		return ErrUsernameCharset
	}
	if strings.HasPrefix(username, ".") || strings.HasSuffix(username, ".") || strings.Contains(username, "..") {
		return ErrUsernameDots
	}
	return nil
}

// CanonicalUsername lowercases and trims a submitted username. Usernames are
// stored and compared in this form only.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
