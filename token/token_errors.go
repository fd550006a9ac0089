package token

import "errors"

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrSecretTooShort = errors.New("session secret shorter than 32 bytes")
)
