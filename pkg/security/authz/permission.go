// Package authz provides the authorization decision engine for Pactum.
//
// The package is organized around four cooperating pieces:
//
//  1. A permission catalog and role matrix mapping global roles to
//     `resource.action` grants (permission.go, matrix.go).
//  2. A collaboration grant resolver deriving per-contract, instance-scoped
//     grants from collaborator records (collab.go).
//  3. A resource policy registry exposing capability-style checks per
//     resource type (registry.go, contract_resource.go).
//  4. A policy chain evaluator producing an auditable allow/deny Decision
//     for a request context (engine.go, policy_*.go).
//
// All registries and the matrix are built once at startup and are
// read-only afterwards; concurrent readers need no locking because no
// writer runs after init.
//
// Usage:
//
//	matrix := authz.DefaultMatrix()
//	resolver := authz.NewGrantResolver(grantStore)
//	engine := authz.NewEngine(
//	    authz.NewAdminPagePolicy(),
//	    authz.NewDepartmentPolicy(),
//	    authz.NewContractPolicy(),
//	)
//
//	decision := engine.Authorize(ctx, subject, authz.RequestContext{
//	    ResourceType: authz.ResourceContract,
//	    Action:       authz.ActionRead,
//	    ResourceID:   "c-42",
//	    Contract:     &authz.ContractContext{IsPublic: true},
//	})
package authz

import "sort"

// Permission is an opaque grant string of shape "<resource>.<action>",
// drawn from the fixed catalog below, or an instance-scoped collaborator
// grant such as "read" or "manage_collaborators".
// Permissions are compared by exact match; the wildcard ("all permissions")
// is represented as a distinct variant of PermissionSet, never as a
// permission value.
type Permission string

// Global permission catalog.
const (
	PermContractRead    Permission = "contract.read"
	PermContractCreate  Permission = "contract.create"
	PermContractUpdate  Permission = "contract.update"
	PermContractDelete  Permission = "contract.delete"
	PermContractExport  Permission = "contract.export"
	PermContractApprove Permission = "contract.approve"

	PermTemplateRead   Permission = "template.read"
	PermTemplateCreate Permission = "template.create"
	PermTemplateUpdate Permission = "template.update"
	PermTemplateDelete Permission = "template.delete"

	PermDepartmentRead   Permission = "department.read"
	PermDepartmentManage Permission = "department.manage"

	PermUserRead   Permission = "user.read"
	PermUserManage Permission = "user.manage"

	PermAdminAccess Permission = "admin.access"
)

// Instance-scoped collaborator grants (see collab.go).
const (
	GrantRead                Permission = "read"
	GrantUpdate              Permission = "update"
	GrantExport              Permission = "export"
	GrantReview              Permission = "review"
	GrantManageCollaborators Permission = "manage_collaborators"
)

// PermissionSet is an immutable set of permissions, or the wildcard set
// granting everything. The wildcard is a dedicated variant so merge and
// comparison logic cannot treat it as an ordinary permission.
type PermissionSet struct {
	all   bool
	perms map[Permission]struct{}
}

// NewPermissionSet creates a set containing exactly the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := PermissionSet{perms: make(map[Permission]struct{}, len(perms))}
	for _, p := range perms {
		s.perms[p] = struct{}{}
	}
	return s
}

// AllPermissions returns the wildcard set.
func AllPermissions() PermissionSet {
	return PermissionSet{all: true}
}

// IsAll reports whether this is the wildcard set.
func (s PermissionSet) IsAll() bool {
	return s.all
}

// IsEmpty reports whether the set grants nothing.
func (s PermissionSet) IsEmpty() bool {
	return !s.all && len(s.perms) == 0
}

// Has reports whether the set grants the requested permission.
// The wildcard set grants everything; otherwise the match is exact,
// with no partial or prefix matching.
func (s PermissionSet) Has(p Permission) bool {
	if s.all {
		return true
	}
	_, ok := s.perms[p]
	return ok
}

// List returns the permissions in the set in sorted order.
// The wildcard set returns nil; check IsAll first.
func (s PermissionSet) List() []Permission {
	if s.all || len(s.perms) == 0 {
		return nil
	}
	out := make([]Permission, 0, len(s.perms))
	for p := range s.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MergeGrants flattens the input sets into one. If any input is the
// wildcard set, the result is exactly the wildcard set; otherwise the
// result is the deduplicated union.
func MergeGrants(sets ...PermissionSet) PermissionSet {
	for _, s := range sets {
		if s.all {
			return AllPermissions()
		}
	}

	merged := PermissionSet{perms: make(map[Permission]struct{})}
	for _, s := range sets {
		for p := range s.perms {
			merged.perms[p] = struct{}{}
		}
	}
	return merged
}
