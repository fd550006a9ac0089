package bankid

import (
	"errors"

	"github.com/fiberdirekt/bankid-auth/bankid/initiation"
)

var (
	// ErrAlreadyInProgress mirrors the tracker's sentinel so callers only
	// need this package to classify Start failures.
	ErrAlreadyInProgress = initiation.ErrAlreadyInProgress

	// ErrProviderFailure marks a failed or timed-out provider call. Surfaced
	// to the UI as a generic failure; the underlying cause is logged
	// server-side only.
	ErrProviderFailure = errors.New("identity provider call failed")
)
