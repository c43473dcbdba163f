package auth

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSession = errors.New("no authenticated session in context")
)
