package v1

import "github.com/duynhne/fishfile-service/internal/core/domain"

// Authorize decides whether actor may act on the resources of target.
// With requireElevated only admins pass. Otherwise admins and the target
// user themselves pass. An actor with an empty username never matches.
func Authorize(actor domain.Identity, target string, requireElevated bool) error {
	if requireElevated {
		if actor.IsAdmin {
			return nil
		}
		return ErrAdminRequired
	}
	if actor.IsAdmin {
		return nil
	}
	if actor.Username != "" && actor.Username == target {
		return nil
	}
	return ErrNotOwnerOrAdmin
}

// EnsureCorrectUserOrAdmin allows the target user and admins.
func EnsureCorrectUserOrAdmin(actor domain.Identity, target string) error {
	return Authorize(actor, target, false)
}

// EnsureAdmin allows admins only.
func EnsureAdmin(actor domain.Identity) error {
	return Authorize(actor, "", true)
}
