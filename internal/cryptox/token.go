package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// RefreshTokenBytes is the entropy of an opaque refresh token.
const RefreshTokenBytes = 48

// NewOpaqueToken returns n random bytes encoded as unpadded base64url.
func NewOpaqueToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// EqualSecrets compares two secrets without short-circuiting on the first
// differing byte.
func EqualSecrets(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
