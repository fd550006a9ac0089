package sessions

import (
	"context"
	"errors"
	"time"
)

// DefaultLifetime is how long a BankID authentication session stays valid
// from initiation.
const DefaultLifetime = 10 * time.Minute

// ErrNoSession is returned by Read when no usable session exists for the
// presented token — absent, expired and tampered tokens all collapse into
// this one error so callers cannot distinguish them.
var ErrNoSession = errors.New("no active session")

// Payload is the state tracked per authentication attempt.
type Payload struct {
	PersonalNumber string    `json:"personal_number"`
	OrderRef       string    `json:"order_ref"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Store persists the in-flight authentication session between the start call
// and the browser's status polls. Exactly one implementation is selected per
// deployment (see config.SessionStoreStrategy); mixing strategies for the
// same logical session is not supported.
//
// The token returned by Start is opaque to the caller: the cookie strategy
// returns a self-contained signed token, the server-side strategies return a
// generated session identifier.
type Store interface {
	// Start creates a new session and returns its token.
	Start(ctx context.Context, payload Payload) (string, error)

	// Read returns the payload for a token, or ErrNoSession if the token is
	// absent, expired or invalid.
	Read(ctx context.Context, token string) (Payload, error)

	// Destroy invalidates the session. Destroying an unknown or already
	// expired session is not an error.
	Destroy(ctx context.Context, token string) error
}
