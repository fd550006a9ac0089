package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RedisStore keeps sessions in a shared cache so multiple server instances
// can serve the same browser's polls. Records carry a TTL equal to the
// session lifetime; Redis expiry is the source of truth for staleness.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a session store on an existing Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("[NewRedisStore] client is required")
	}
	if ttl <= 0 {
		ttl = DefaultLifetime
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("bankid:session:%s", sessionID)
}

// Start stores the payload under a fresh session identifier with the
// configured TTL.
func (s *RedisStore) Start(ctx context.Context, payload Payload) (string, error) {
	sessionID := uuid.New().String()

	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "[RedisStore.Start] marshal")
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "[RedisStore.Start] set")
	}
	return sessionID, nil
}

// Read returns the payload for a session identifier, or ErrNoSession when
// the key is missing or expired.
func (s *RedisStore) Read(ctx context.Context, sessionID string) (Payload, error) {
	if sessionID == "" {
		return Payload{}, ErrNoSession
	}

	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Payload{}, ErrNoSession
		}
		return Payload{}, errors.Wrap(err, "[RedisStore.Read] get")
	}

	var payload Payload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return Payload{}, errors.Wrap(err, "[RedisStore.Read] unmarshal")
	}
	return payload, nil
}

// Destroy deletes the record immediately. Unknown identifiers are a no-op.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Destroy] del")
	}
	return nil
}
