package biz

import (
	"context"

	"github.com/pactum-io/pactum/internal/authd/store"
	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// CollabService manages collaboration grants on contracts.
type CollabService struct {
	store store.Factory
}

// NewCollabService creates a new CollabService.
func NewCollabService(factory store.Factory) *CollabService {
	return &CollabService{store: factory}
}

// CanManage reports whether the subject may manage the contract's
// collaborator list: the manager class, or a collaborator whose grant
// carries the manage permission.
func (s *CollabService) CanManage(ctx context.Context, subject authz.Subject, contractID string) bool {
	if subject.IsAdmin() || subject.IsManager() {
		return true
	}
	resolver := authz.NewGrantResolver(s.store.Collaborators())
	return resolver.Grants(ctx, contractID, subject.ID).Has(authz.GrantManageCollaborators)
}

// Grant gives the user a collaboration role on the contract, replacing
// any existing grant.
func (s *CollabService) Grant(ctx context.Context, contractID, userID string, role authz.CollaboratorRole) (*model.Collaborator, error) {
	if authz.GrantsFor(role).IsEmpty() {
		return nil, errors.ErrInvalidParam.WithMessagef("unknown collaborator role %q", role)
	}

	// The contract must exist before anyone can be granted on it.
	if _, err := s.store.Contracts().Get(ctx, contractID); err != nil {
		return nil, err
	}

	grant := &model.Collaborator{
		ResourceID: contractID,
		UserID:     userID,
		Role:       string(role),
		Active:     true,
	}
	if err := s.store.Collaborators().Upsert(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// Revoke deactivates the user's grant on the contract.
func (s *CollabService) Revoke(ctx context.Context, contractID, userID string) error {
	return s.store.Collaborators().Deactivate(ctx, contractID, userID)
}

// List returns the active grants on the contract.
func (s *CollabService) List(ctx context.Context, contractID string) ([]*model.Collaborator, error) {
	return s.store.Collaborators().ListActive(ctx, contractID)
}
