package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers unknown slugs, usernames and post ids.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned for writes and the follow feed without an actor.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when a non-author edits or deletes a post.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field-level messages for malformed form input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Actor is the authenticated user an operation runs on behalf of.
// A nil *Actor means an anonymous request.
type Actor struct {
	ID       uint
	Username string
	Admin    bool
}
