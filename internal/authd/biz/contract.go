package biz

import (
	"context"

	"github.com/pactum-io/pactum/internal/authd/store"
	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

// ContractService manages contract metadata. Instance-level access is
// enforced at the route layer; creation and deletion consult the
// resource policy registry here.
type ContractService struct {
	registry *authz.Registry
	store    store.Factory
}

// NewContractService creates a new ContractService.
func NewContractService(registry *authz.Registry, factory store.Factory) *ContractService {
	return &ContractService{registry: registry, store: factory}
}

func policyContext(subject authz.Subject) *authz.PolicyContext {
	return &authz.PolicyContext{UserID: subject.ID, Roles: subject.Roles}
}

// CanCreate reports whether the subject may create contracts.
func (s *ContractService) CanCreate(ctx context.Context, subject authz.Subject) (bool, error) {
	policy, ok := s.registry.Get(authz.ResourceContract)
	if !ok {
		return false, nil
	}
	return policy.CanCreate(ctx, policyContext(subject))
}

// CanDelete reports whether the subject may delete the contract.
func (s *ContractService) CanDelete(ctx context.Context, subject authz.Subject, contractID string) (bool, error) {
	policy, ok := s.registry.Get(authz.ResourceContract)
	if !ok {
		return false, nil
	}
	return policy.CanDelete(ctx, contractID, policyContext(subject))
}

// Create stores a new contract. The creator receives an owner grant so
// they can manage their own contract from the start.
func (s *ContractService) Create(ctx context.Context, contract *model.Contract, creatorID string) error {
	if err := s.store.Contracts().Create(ctx, contract); err != nil {
		return err
	}

	return s.store.Collaborators().Upsert(ctx, &model.Collaborator{
		ResourceID: contract.ID,
		UserID:     creatorID,
		Role:       string(authz.CollaboratorOwner),
		Active:     true,
	})
}

// Update saves changed contract metadata.
func (s *ContractService) Update(ctx context.Context, contract *model.Contract) error {
	return s.store.Contracts().Update(ctx, contract)
}

// Get retrieves a contract by ID.
func (s *ContractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	return s.store.Contracts().Get(ctx, id)
}

// Delete removes the contract.
func (s *ContractService) Delete(ctx context.Context, id string) error {
	return s.store.Contracts().Delete(ctx, id)
}
