package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when the provider credential is missing or rejected.
	ErrAuth = errors.New("llm: provider authentication failed")

	// ErrUpstream matches every *UpstreamError via errors.Is.
	ErrUpstream = errors.New("llm: upstream provider error")
)

// UpstreamError describes a failed provider call.
type UpstreamError struct {
	Provider string
	// StatusCode is the provider's HTTP status, zero for transport failures.
	StatusCode int
	// Timeout is set when the call hit its deadline.
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports ErrUpstream as a match so callers need not know the concrete type.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// missingKeyError is returned before any network call when no key is configured.
func missingKeyError(envVar string) error {
	return fmt.Errorf("%w: %s not configured", ErrAuth, envVar)
}

// newUpstreamError wraps err and flags deadline failures as timeouts.
func newUpstreamError(provider string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		StatusCode: statusCode,
		Timeout:    errors.Is(err, context.DeadlineExceeded),
		Err:        err,
	}
}
