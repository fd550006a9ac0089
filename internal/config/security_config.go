package config

import (
	"os"
	"time"
)

// SessionStoreStrategy selects which sessions.Store implementation a
// deployment runs. Exactly one strategy serves a deployment; the strategies
// are never mixed for the same logical session.
type SessionStoreStrategy string

const (
	StoreStrategyCookie SessionStoreStrategy = "cookie"
	StoreStrategyMemory SessionStoreStrategy = "memory"
	StoreStrategyRedis  SessionStoreStrategy = "redis"
)

type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionLifetime() time.Duration
	GetSessionCookieName() string
	GetCSRFCookieName() string
	GetSessionStoreStrategy() SessionStoreStrategy
	GetRedisAddress() string
	GetRedisPassword() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the symmetric signing secret. There is no
// default: a missing or short secret must abort startup, never fall back to
// a weak built-in value.
func (Security) GetSessionSecret() string {
	return os.Getenv("SESSION_SECRET")
}

func (Security) GetSessionLifetime() time.Duration {
	return 10 * time.Minute
}

func (Security) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "bankid_session")
}

func (Security) GetCSRFCookieName() string {
	return GetEnv("CSRF_COOKIE_NAME", "csrf_token")
}

func (Security) GetSessionStoreStrategy() SessionStoreStrategy {
	return SessionStoreStrategy(GetEnv("SESSION_STORE", string(StoreStrategyCookie)))
}

func (Security) GetRedisAddress() string {
	return GetEnv("REDIS_ADDRESS", "localhost:6379")
}

func (Security) GetRedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}
