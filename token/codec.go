package token

import (
	"crypto/sha256"
	"io"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the minimum accepted length for the configured signing
// secret. 32 bytes gives the 256 bits of entropy HS256 expects; anything
// shorter is a deployment error and refuses to start.
const MinSecretLength = 32

const keyDerivationInfo = "bankid-session-token-v1"

// Claims is the payload carried inside a session token. The personal number
// is sensitive and must never be written to logs or client-visible output.
type Claims struct {
	PersonalNumber string `json:"pnr"`
	OrderRef       string `json:"ref"`
	jwtlib.RegisteredClaims
}

// Codec produces and validates the signed, expiring session tokens held by
// the browser. Tokens are opaque to the client; only a process holding the
// same secret can mint or verify them.
type Codec struct {
	key     []byte
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec derives an HS256 signing key from the configured secret via
// HKDF-SHA256 and returns a ready Codec. Secrets shorter than
// MinSecretLength are rejected.
func NewCodec(secret string, options ...CodecOption) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyDerivationInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Wrap(err, "[NewCodec] key derivation")
	}

	codec := &Codec{
		key:     key,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(codec)
	}

	return codec, nil
}

// Encode signs a token embedding the personal number, the provider order
// reference and an expiry of now + lifetime.
func (c *Codec) Encode(personalNumber, orderRef string, lifetime time.Duration) (string, error) {
	now := c.nowTime()

	claims := Claims{
		PersonalNumber: personalNumber,
		OrderRef:       orderRef,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Encode] sign")
	}
	return signed, nil
}

// Decode verifies the signature and expiry of a token and returns its claims.
// Expired tokens return ErrTokenExpired; anything that fails the integrity
// check (tampering, wrong secret, malformed input) returns ErrTokenInvalid.
// Callers treating the token as a session must handle both identically as
// "no session" and never surface which one occurred to the client.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwtlib.ParseWithClaims(raw, claims,
		func(t *jwtlib.Token) (any, error) { return c.key, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(c.nowTime),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
