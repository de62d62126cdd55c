package middleware

import "errors"

var (
	errTokenRevoked = errors.New("token revoked")
	errUnknownUser  = errors.New("token owner no longer exists")
)
