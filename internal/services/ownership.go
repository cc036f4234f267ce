package services

import "krishilink/internal/domain"

// Authorize lets the principal act on a resource only if it owns it.
// Ids are compared in their string form.
func Authorize(ownerID domain.ID, principal domain.Principal, action, resource string) error {
	if domain.IDString(ownerID) != domain.IDString(principal.UserID) {
		return domain.ForbiddenError{Action: action, Resource: resource}
	}
	return nil
}
