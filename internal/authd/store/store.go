// Package store provides persistence for contracts and collaboration
// grants.
package store

import (
	"context"

	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Contracts() ContractStore
	Collaborators() CollaboratorStore
	AutoMigrate() error
	Close() error
}

// ContractStore defines contract metadata storage.
type ContractStore interface {
	Create(ctx context.Context, contract *model.Contract) error
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Contract, error)
}

// CollaboratorStore defines collaboration grant storage. It satisfies
// authz.GrantStore so the grant resolver can read from it directly.
type CollaboratorStore interface {
	authz.GrantStore

	// Upsert creates the grant or replaces the user's existing grant on
	// the resource.
	Upsert(ctx context.Context, grant *model.Collaborator) error

	// Deactivate marks the user's grant on the resource inactive.
	Deactivate(ctx context.Context, resourceID, userID string) error

	// ListActive returns all active grants on a resource.
	ListActive(ctx context.Context, resourceID string) ([]*model.Collaborator, error)
}
