package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// memoryFactory is an in-memory Factory for tests and local development.
type memoryFactory struct {
	mu            sync.RWMutex
	contracts     map[string]model.Contract
	collaborators map[string]model.Collaborator // keyed resourceID + "/" + userID
	nextID        uint64
}

// NewMemoryFactory creates an in-memory store factory.
func NewMemoryFactory() Factory {
	return &memoryFactory{
		contracts:     make(map[string]model.Contract),
		collaborators: make(map[string]model.Collaborator),
		nextID:        1,
	}
}

func (f *memoryFactory) Contracts() ContractStore         { return (*memoryContracts)(f) }
func (f *memoryFactory) Collaborators() CollaboratorStore { return (*memoryCollaborators)(f) }
func (f *memoryFactory) AutoMigrate() error               { return nil }
func (f *memoryFactory) Close() error                     { return nil }

type memoryContracts memoryFactory

func (s *memoryContracts) Create(_ context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[contract.ID]; ok {
		return errors.ErrInvalidParam.WithMessagef("contract %s already exists", contract.ID)
	}
	contract.CreatedAt = time.Now()
	contract.UpdatedAt = contract.CreatedAt
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *memoryContracts) Update(_ context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[contract.ID]; !ok {
		return errors.ErrNotFound.WithMessagef("contract %s not found", contract.ID)
	}
	contract.UpdatedAt = time.Now()
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *memoryContracts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return errors.ErrNotFound.WithMessagef("contract %s not found", id)
	}
	delete(s.contracts, id)
	return nil
}

func (s *memoryContracts) Get(_ context.Context, id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[id]
	if !ok {
		return nil, errors.ErrNotFound.WithMessagef("contract %s not found", id)
	}
	return &contract, nil
}

type memoryCollaborators memoryFactory

func grantKey(resourceID, userID string) string {
	return resourceID + "/" + userID
}

func (s *memoryCollaborators) Upsert(_ context.Context, grant *model.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey(grant.ResourceID, grant.UserID)
	if existing, ok := s.collaborators[key]; ok {
		grant.ID = existing.ID
		grant.CreatedAt = existing.CreatedAt
	} else {
		grant.ID = s.nextID
		s.nextID++
		grant.CreatedAt = time.Now()
	}
	grant.UpdatedAt = time.Now()
	s.collaborators[key] = *grant
	return nil
}

func (s *memoryCollaborators) Deactivate(_ context.Context, resourceID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey(resourceID, userID)
	grant, ok := s.collaborators[key]
	if !ok || !grant.Active {
		return errors.ErrNotFound.WithMessagef("no active grant for user %s on %s", userID, resourceID)
	}
	grant.Active = false
	grant.UpdatedAt = time.Now()
	s.collaborators[key] = grant
	return nil
}

func (s *memoryCollaborators) ListActive(_ context.Context, resourceID string) ([]*model.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []*model.Collaborator
	for _, grant := range s.collaborators {
		if grant.ResourceID == resourceID && grant.Active {
			g := grant
			grants = append(grants, &g)
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].UserID < grants[j].UserID })
	return grants, nil
}

func (s *memoryCollaborators) ActiveGrant(_ context.Context, resourceID, userID string) (authz.CollaboratorRole, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant, ok := s.collaborators[grantKey(resourceID, userID)]
	if !ok || !grant.Active {
		return "", false, nil
	}
	return authz.CollaboratorRole(grant.Role), true, nil
}
