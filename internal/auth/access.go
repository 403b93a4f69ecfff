package auth

import (
	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/models"
)

// CanAccess reports whether caller may act on a resource owned by ownerID.
// allowAdmin lets ADMIN callers through; only user self-management passes true.
func CanAccess(caller *models.User, ownerID int64, allowAdmin bool) bool {
	if caller == nil {
		return false
	}
	if caller.ID == ownerID {
		return true
	}
	return allowAdmin && caller.IsAdmin()
}

// Authorize is CanAccess returning ErrForbidden with msg on denial.
func Authorize(caller *models.User, ownerID int64, allowAdmin bool, msg string) error {
	if !CanAccess(caller, ownerID, allowAdmin) {
		return apperr.New(apperr.ErrForbidden, "%s", msg)
	}
	return nil
}
