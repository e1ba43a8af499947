package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

type collaborators struct {
	db *gorm.DB
}

func newCollaborators(db *gorm.DB) *collaborators {
	return &collaborators{db}
}

// Upsert creates the grant or replaces the user's existing grant on the
// resource. Re-granting reactivates a deactivated record.
func (s *collaborators) Upsert(ctx context.Context, grant *model.Collaborator) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "active", "updated_at"}),
	}).Create(grant).Error
	if err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Deactivate marks the user's grant on the resource inactive.
func (s *collaborators) Deactivate(ctx context.Context, resourceID, userID string) error {
	result := s.db.WithContext(ctx).
		Model(&model.Collaborator{}).
		Where("resource_id = ? AND user_id = ? AND active = ?", resourceID, userID, true).
		Update("active", false)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("no active grant for user %s on %s", userID, resourceID)
	}
	return nil
}

// ListActive returns all active grants on a resource.
func (s *collaborators) ListActive(ctx context.Context, resourceID string) ([]*model.Collaborator, error) {
	var grants []*model.Collaborator
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND active = ?", resourceID, true).
		Order("user_id").
		Find(&grants).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return grants, nil
}

// ActiveGrant returns the user's active collaboration role on the
// resource, if any. It implements authz.GrantStore.
func (s *collaborators) ActiveGrant(ctx context.Context, resourceID, userID string) (authz.CollaboratorRole, bool, error) {
	var grant model.Collaborator
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND user_id = ? AND active = ?", resourceID, userID, true).
		First(&grant).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.ErrDatabase.WithCause(err)
	}
	return authz.CollaboratorRole(grant.Role), true, nil
}
