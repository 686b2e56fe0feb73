package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashToken returns the hex SHA-256 of a token. Refresh tokens are only ever
// stored and looked up in hashed form.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
