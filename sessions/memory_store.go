package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// sweepInterval is how often the janitor removes expired records. Expired
// records are inert (Read treats them as absent) even before the sweep
// reaches them.
const sweepInterval = 60 * time.Second

// MemoryStore keeps sessions server-side in a TTL cache keyed by a generated
// session identifier. Sessions can be revoked immediately but are lost on
// restart and are not shared across processes — single-instance deployments
// only.
type MemoryStore struct {
	records *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory session store with the given lifetime.
func NewMemoryStore(lifetime time.Duration) *MemoryStore {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &MemoryStore{
		records: gocache.New(lifetime, sweepInterval),
	}
}

// Start stores the payload under a fresh session identifier.
func (s *MemoryStore) Start(_ context.Context, payload Payload) (string, error) {
	sessionID := uuid.New().String()
	s.records.Set(sessionID, payload, gocache.DefaultExpiration)
	return sessionID, nil
}

// Read returns the payload for a session identifier, or ErrNoSession.
func (s *MemoryStore) Read(_ context.Context, sessionID string) (Payload, error) {
	if sessionID == "" {
		return Payload{}, ErrNoSession
	}
	value, ok := s.records.Get(sessionID)
	if !ok {
		return Payload{}, ErrNoSession
	}
	payload, ok := value.(Payload)
	if !ok {
		return Payload{}, ErrNoSession
	}
	return payload, nil
}

// Destroy deletes the record immediately. Unknown identifiers are a no-op.
func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.records.Delete(sessionID)
	return nil
}
