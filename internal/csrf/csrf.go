// Package csrf issues the double-submit tokens the frontend sends back in
// the X-CSRF-Token header on state-changing requests.
package csrf

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

// TokenLifetime is how long an issued token (and its cookie) stays valid.
const TokenLifetime = 24 * time.Hour

const tokenLength = 32 // 32 bytes = 256 bits

// GenerateToken creates a random base64url token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "[csrf.GenerateToken] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
