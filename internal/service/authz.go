package service

import (
	apperrors "bazaar/internal/errors"
	"bazaar/internal/session"
)

// requireOwnerOrAdmin fails with Forbidden unless the session's user owns the
// resource or carries the administrator role. ownerID must come from the
// current persisted record, never from request payload.
func requireOwnerOrAdmin(s session.Session, ownerID string) error {
	if s.UserID == ownerID || s.IsAdmin {
		return nil
	}
	return apperrors.ErrForbidden
}
