// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidSignature rejects a webhook delivery before the body is parsed.
// A missing signature and a mismatched one surface identically to the caller.
var ErrInvalidSignature = errors.New("invalid signature")

// ErrSecretNotConfigured means the shared webhook secret is absent. The
// process keeps running but reports not-ready.
var ErrSecretNotConfigured = errors.New("webhook secret not configured")

// ValidationError carries field-level detail for a payload that failed
// schema validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, detail := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, detail))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// Helper constructor
func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
