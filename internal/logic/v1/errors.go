// Package v1 provides the FishFile business logic for API version 1.
//
// Error Handling:
// Every error returned from this package wraps one of the domain kinds
// (domain.ErrNotFound, domain.ErrConflict, ...) so handlers can classify it
// with errors.Is. The sentinels below add a fixed, client-safe message to
// the kinds the logic layer produces itself.
//
// Example Usage:
//
//	if err := EnsureCorrectUserOrAdmin(actor, username); err != nil {
//	    return err // wraps domain.ErrForbidden
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, domain.ErrUnauthorized):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
//	case errors.Is(err, domain.ErrForbidden):
//	    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import (
	"fmt"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

var (
	// ErrInvalidCredentials is returned unwrapped for both an unknown
	// username and a wrong password, so the two cannot be told apart.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = fmt.Errorf("invalid username/password: %w", domain.ErrUnauthorized)

	// ErrNotAuthenticated indicates a protected route was called without a valid token.
	// HTTP Status: 401 Unauthorized
	ErrNotAuthenticated = fmt.Errorf("authentication required: %w", domain.ErrUnauthorized)

	// ErrNotOwnerOrAdmin indicates the actor is neither the target user nor an admin.
	// HTTP Status: 403 Forbidden
	ErrNotOwnerOrAdmin = fmt.Errorf("must be the same user or an admin: %w", domain.ErrForbidden)

	// ErrAdminRequired indicates an admin-only operation was attempted by a regular user.
	// HTTP Status: 403 Forbidden
	ErrAdminRequired = fmt.Errorf("admin privileges required: %w", domain.ErrForbidden)
)
