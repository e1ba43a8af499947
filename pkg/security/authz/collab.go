package authz

import (
	"context"

	"github.com/kart-io/logger"
)

// CollaboratorRole is a per-contract role, independent of global roles.
type CollaboratorRole string

const (
	CollaboratorOwner    CollaboratorRole = "owner"
	CollaboratorEditor   CollaboratorRole = "editor"
	CollaboratorReviewer CollaboratorRole = "reviewer"
	CollaboratorViewer   CollaboratorRole = "viewer"
)

// collaboratorGrants maps each collaborator role to its instance-scoped
// grants. The sets are hand-enumerated on purpose: they are NOT strictly
// nested (editor lacks manage_collaborators; reviewer has review, which
// editor does not), so deriving them from a hierarchy would over-grant.
var collaboratorGrants = map[CollaboratorRole]PermissionSet{
	CollaboratorOwner:    NewPermissionSet(GrantRead, GrantUpdate, GrantExport, GrantManageCollaborators),
	CollaboratorEditor:   NewPermissionSet(GrantRead, GrantUpdate, GrantExport),
	CollaboratorReviewer: NewPermissionSet(GrantRead, GrantReview),
	CollaboratorViewer:   NewPermissionSet(GrantRead),
}

// GrantsFor returns the permission set a collaborator role implies.
// Unknown roles grant nothing.
func GrantsFor(role CollaboratorRole) PermissionSet {
	if set, ok := collaboratorGrants[role]; ok {
		return set
	}
	return NewPermissionSet()
}

// GrantStore is the narrow lookup contract to collaborator storage.
// Records are keyed by (resourceID, userID); the store must enforce at
// most one active record per pair. The store may be written by external
// components at any time, so implementations must read current committed
// state and never cache grants across calls.
type GrantStore interface {
	// ActiveGrant returns the collaborator role of the single active
	// record for the pair, or ok=false when no active record exists.
	ActiveGrant(ctx context.Context, resourceID, userID string) (CollaboratorRole, bool, error)
}

// GrantResolver derives instance-scoped permission sets from collaborator
// records. It is purely a read path and never mutates collaborator state.
type GrantResolver struct {
	store GrantStore
}

// NewGrantResolver creates a resolver over the given store.
func NewGrantResolver(store GrantStore) *GrantResolver {
	return &GrantResolver{store: store}
}

// Grants returns the subject's instance-scoped grants for the resource.
// No active record means an empty set. A store failure is also treated as
// "no grant" — deny, never crash — but is logged so operators can tell it
// apart from a legitimate non-participant denial.
func (r *GrantResolver) Grants(ctx context.Context, resourceID, userID string) PermissionSet {
	role, ok, err := r.store.ActiveGrant(ctx, resourceID, userID)
	if err != nil {
		logger.Warnw("collaborator grant lookup failed, treating as no grant",
			"resource_id", resourceID,
			"user_id", userID,
			"error", err.Error(),
		)
		return NewPermissionSet()
	}
	if !ok {
		return NewPermissionSet()
	}
	return GrantsFor(role)
}

// CanView reports whether the subject may view the resource instance.
func (r *GrantResolver) CanView(ctx context.Context, resourceID, userID string) bool {
	return r.Grants(ctx, resourceID, userID).Has(GrantRead)
}

// CanEdit reports whether the subject may update the resource instance.
func (r *GrantResolver) CanEdit(ctx context.Context, resourceID, userID string) bool {
	return r.Grants(ctx, resourceID, userID).Has(GrantUpdate)
}

// IsOwner reports whether the subject owns the resource instance.
func (r *GrantResolver) IsOwner(ctx context.Context, resourceID, userID string) bool {
	role, ok, err := r.store.ActiveGrant(ctx, resourceID, userID)
	if err != nil {
		logger.Warnw("collaborator grant lookup failed, treating as no grant",
			"resource_id", resourceID,
			"user_id", userID,
			"error", err.Error(),
		)
		return false
	}
	return ok && role == CollaboratorOwner
}
