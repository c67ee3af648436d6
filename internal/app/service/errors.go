package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when a login email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialMismatch is returned when the current password supplied for a change is wrong.
	ErrCredentialMismatch = errors.New("current password is incorrect")
)

// ValidationError carries per-field messages for user-facing input errors.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
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
