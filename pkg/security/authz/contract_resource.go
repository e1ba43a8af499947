package authz

import "context"

// ContractResourcePolicy is the contract entry in the resource policy
// registry:
//
//   - view:   manager-class role, else an active collaborator grant
//   - create: manager or staff role
//   - update: manager, else collaborator "can edit"
//   - delete: manager, else collaborator owner
type ContractResourcePolicy struct {
	resolver *GrantResolver
}

// NewContractResourcePolicy creates the contract resource policy backed
// by the given grant resolver.
func NewContractResourcePolicy(resolver *GrantResolver) *ContractResourcePolicy {
	return &ContractResourcePolicy{resolver: resolver}
}

// Resource implements ResourcePolicy.
func (p *ContractResourcePolicy) Resource() ResourceType {
	return ResourceContract
}

// CanView implements ResourcePolicy.
func (p *ContractResourcePolicy) CanView(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error) {
	if pc.hasRole(RoleAdmin) || pc.hasRole(RoleManager) {
		return true, nil
	}
	return p.resolver.CanView(ctx, resourceID, pc.UserID), nil
}

// CanCreate implements ResourcePolicy.
func (p *ContractResourcePolicy) CanCreate(_ context.Context, pc *PolicyContext) (bool, error) {
	return pc.hasRole(RoleAdmin) || pc.hasRole(RoleManager) || pc.hasRole(RoleStaff), nil
}

// CanUpdate implements ResourcePolicy.
func (p *ContractResourcePolicy) CanUpdate(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error) {
	if pc.hasRole(RoleAdmin) || pc.hasRole(RoleManager) {
		return true, nil
	}
	return p.resolver.CanEdit(ctx, resourceID, pc.UserID), nil
}

// CanDelete implements ResourcePolicy.
func (p *ContractResourcePolicy) CanDelete(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error) {
	if pc.hasRole(RoleAdmin) || pc.hasRole(RoleManager) {
		return true, nil
	}
	return p.resolver.IsOwner(ctx, resourceID, pc.UserID), nil
}
