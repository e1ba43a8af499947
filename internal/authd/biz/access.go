// Package biz implements the access decision business logic.
package biz

import (
	"context"

	"github.com/pactum-io/pactum/internal/authd/store"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

// AccessService answers authorization questions. It owns the policy
// chain, the resource policy registry and the grant resolver, and loads
// the contract state each decision needs.
type AccessService struct {
	engine   *authz.Engine
	registry *authz.Registry
	store    store.Factory
}

// NewAccessService wires the access service from its dependencies.
func NewAccessService(engine *authz.Engine, registry *authz.Registry, factory store.Factory) *AccessService {
	return &AccessService{
		engine:   engine,
		registry: registry,
		store:    factory,
	}
}

// ContractRequest builds the authorization request for an action on a
// contract, loading its visibility and active participant list.
func (s *AccessService) ContractRequest(ctx context.Context, contractID string, action authz.Action) (authz.RequestContext, error) {
	contract, err := s.store.Contracts().Get(ctx, contractID)
	if err != nil {
		return authz.RequestContext{}, err
	}

	grants, err := s.store.Collaborators().ListActive(ctx, contractID)
	if err != nil {
		return authz.RequestContext{}, err
	}
	participants := make([]string, len(grants))
	for i, g := range grants {
		participants[i] = g.UserID
	}

	return authz.RequestContext{
		ResourceType: authz.ResourceContract,
		Action:       action,
		ResourceID:   contractID,
		DepartmentID: contract.DepartmentID,
		Contract: &authz.ContractContext{
			DepartmentID:       contract.DepartmentID,
			IsPublic:           contract.IsPublic,
			ParticipantUserIDs: participants,
		},
	}, nil
}

// Check evaluates the policy chain for an explicit decision request.
func (s *AccessService) Check(ctx context.Context, subject authz.Subject, req authz.RequestContext) authz.Decision {
	return s.engine.Authorize(ctx, subject, req)
}

// Capabilities aggregates the per-check capabilities of a subject on a
// resource instance.
func (s *AccessService) Capabilities(ctx context.Context, resourceType authz.ResourceType, resourceID string, subject authz.Subject) (authz.Capabilities, error) {
	pc := &authz.PolicyContext{
		UserID: subject.ID,
		Roles:  subject.Roles,
	}
	return s.registry.Capabilities(ctx, resourceType, resourceID, pc)
}

// Policies returns the policy chain in evaluation order.
func (s *AccessService) Policies() []string {
	return s.engine.Policies()
}
