// Package domain holds the entities, repository contracts and error kinds
// shared by the core, logic and web layers.
//
// Error Handling:
// Every failure surfaced by a repository or service wraps exactly one of the
// sentinel kinds below, using fmt.Errorf("%w") to add context:
//
//	return Location{}, fmt.Errorf("no location: %d: %w", id, ErrNotFound)
//
// Callers classify with errors.Is:
//
//	switch {
//	case errors.Is(err, domain.ErrNotFound):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	case errors.Is(err, domain.ErrConflict):
//	    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
//	}
package domain

import (
	"errors"
	"strings"
)

var (
	// ErrBadRequest indicates malformed or empty input.
	// HTTP Status: 400 Bad Request
	ErrBadRequest = errors.New("bad request")

	// ErrConflict indicates a uniqueness violation (username, location name
	// per owner, record date per location).
	// HTTP Status: 409 Conflict
	ErrConflict = errors.New("duplicate key")

	// ErrNotFound indicates the addressed entity or a referenced parent does not exist.
	// HTTP Status: 404 Not Found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates credential verification failed.
	// HTTP Status: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated identity may not act on the target.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream indicates the weather provider call failed.
	// HTTP Status: 502 Bad Gateway
	ErrUpstream = errors.New("upstream error")
)

// UpstreamError carries the provider's human-readable messages.
// Messages is never empty.
type UpstreamError struct {
	Messages []string
}

// NewUpstreamError builds an UpstreamError, dropping blank messages.
// A fallback message is used when nothing usable remains.
func NewUpstreamError(messages ...string) *UpstreamError {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		out = append(out, "weather provider request failed")
	}
	return &UpstreamError{Messages: out}
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + strings.Join(e.Messages, "; ")
}

// Is reports UpstreamError as the ErrUpstream kind.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
