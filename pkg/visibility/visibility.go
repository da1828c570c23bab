package visibility

import (
	"github.com/google/uuid"

	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
)

// Tier classifies how much of a complaint a viewer is allowed to see.
type Tier int

const (
	// TierPublic is the anonymized projection served to anyone.
	TierPublic Tier = iota
	// TierOwner adds the timeline and admin remarks for the reporter.
	TierOwner
	// TierAdmin adds the reporter's identity on top of the owner view.
	TierAdmin
)

// Viewer identifies the caller for visibility decisions. A zero Viewer is an
// anonymous request.
type Viewer struct {
	UserID        uuid.UUID
	IsAdmin       bool
	Authenticated bool
}

// TierFor resolves the visibility tier a viewer gets for a complaint owned by
// ownerID. Admins always get the full view regardless of ownership.
func TierFor(viewer Viewer, ownerID uuid.UUID) Tier {
	if viewer.Authenticated && viewer.IsAdmin {
		return TierAdmin
	}
	if viewer.Authenticated && viewer.UserID != uuid.Nil && viewer.UserID == ownerID {
		return TierOwner
	}
	return TierPublic
}

// IncludesTimeline reports whether the status timeline is part of the view.
func (t Tier) IncludesTimeline() bool {
	return t >= TierOwner
}

// IncludesAdminRemarks reports whether admin remarks are part of the view.
func (t Tier) IncludesAdminRemarks() bool {
	return t >= TierOwner
}

// IncludesOwnerIdentity reports whether the reporter's name and email are
// part of the view. Public and owner views never carry reporter identity.
func (t Tier) IncludesOwnerIdentity() bool {
	return t >= TierAdmin
}

// EnsureAdmin rejects non-admin viewers with a forbidden error.
func EnsureAdmin(viewer Viewer) error {
	if !viewer.Authenticated {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !viewer.IsAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}

// EnsureOwnerOrAdmin rejects viewers that are neither the complaint owner nor
// an admin.
func EnsureOwnerOrAdmin(viewer Viewer, ownerID uuid.UUID) error {
	if !viewer.Authenticated {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if viewer.IsAdmin {
		return nil
	}
	if viewer.UserID == uuid.Nil || viewer.UserID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to access this complaint")
	}
	return nil
}
