package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fiberdirekt/bankid-auth/token"
)

// CookieStore keeps no server-side state: the token it returns is a signed,
// self-contained ticket the browser holds in a cookie. Sessions survive
// process restarts, but a ticket cannot be revoked before its natural expiry
// without the holder's cooperation — the HTTP layer overwrites the cookie
// with an expired one on cancel. Deployments that need proactive revocation
// should use MemoryStore or RedisStore instead.
type CookieStore struct {
	codec    *token.Codec
	lifetime time.Duration
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore creates a stateless session store backed by the given codec.
func NewCookieStore(codec *token.Codec, lifetime time.Duration) (*CookieStore, error) {
	if codec == nil {
		return nil, errors.New("[NewCookieStore] codec is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &CookieStore{codec: codec, lifetime: lifetime}, nil
}

// Start encodes the payload into a signed ticket valid for the configured
// lifetime.
func (s *CookieStore) Start(_ context.Context, payload Payload) (string, error) {
	ticket, err := s.codec.Encode(payload.PersonalNumber, payload.OrderRef, s.lifetime)
	if err != nil {
		return "", errors.Wrap(err, "[CookieStore.Start] encode")
	}
	return ticket, nil
}

// Read decodes and verifies the ticket. Expired and invalid tickets both
// report ErrNoSession.
func (s *CookieStore) Read(_ context.Context, ticket string) (Payload, error) {
	if ticket == "" {
		return Payload{}, ErrNoSession
	}
	claims, err := s.codec.Decode(ticket)
	if err != nil {
		return Payload{}, ErrNoSession
	}
	payload := Payload{
		PersonalNumber: claims.PersonalNumber,
		OrderRef:       claims.OrderRef,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	return payload, nil
}

// Destroy is a no-op: a self-contained ticket cannot be invalidated early.
// Callers must clear the client-held cookie instead.
func (s *CookieStore) Destroy(_ context.Context, _ string) error {
	return nil
}
