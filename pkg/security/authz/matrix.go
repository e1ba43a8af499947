package authz

// Matrix maps global roles to their permission grants.
//
// A Matrix is populated once during startup (via Grant) and is read-only
// afterwards; GlobalGrants and Has take no locks. If hot-reloading of role
// grants is ever needed it must be done by building a new Matrix and
// swapping the pointer atomically, not by mutating a live one.
type Matrix struct {
	grants map[Role]PermissionSet
}

// NewMatrix creates an empty permission matrix.
func NewMatrix() *Matrix {
	return &Matrix{grants: make(map[Role]PermissionSet)}
}

// Grant sets the permission set for a role. Later grants for the same
// role replace earlier ones. Grant must only be called during startup,
// before the matrix is shared.
func (m *Matrix) Grant(role Role, set PermissionSet) *Matrix {
	m.grants[role] = set
	return m
}

// GlobalGrants looks up each role and merges the grants. Roles with no
// entry contribute an empty set: an unknown role grants nothing and is
// never an error.
func (m *Matrix) GlobalGrants(roles []Role) PermissionSet {
	sets := make([]PermissionSet, 0, len(roles))
	for _, role := range roles {
		if set, ok := m.grants[role]; ok {
			sets = append(sets, set)
		}
	}
	return MergeGrants(sets...)
}

// Has reports whether the merged grants of the given roles contain the
// requested permission.
func (m *Matrix) Has(roles []Role, requested Permission) bool {
	return m.GlobalGrants(roles).Has(requested)
}

// DefaultMatrix returns the built-in role matrix:
//
//	admin        -> all permissions (wildcard)
//	manager      -> contract/template/department/user grants
//	staff        -> contract read/create/export, template read
//	collaborator -> no global grants; access comes from per-contract
//	                collaborator records only
func DefaultMatrix() *Matrix {
	return NewMatrix().
		Grant(RoleAdmin, AllPermissions()).
		Grant(RoleManager, NewPermissionSet(
			PermContractRead, PermContractCreate, PermContractUpdate,
			PermContractDelete, PermContractExport, PermContractApprove,
			PermTemplateRead, PermTemplateCreate, PermTemplateUpdate, PermTemplateDelete,
			PermDepartmentRead, PermDepartmentManage,
			PermUserRead,
		)).
		Grant(RoleStaff, NewPermissionSet(
			PermContractRead, PermContractCreate, PermContractExport,
			PermTemplateRead,
			PermDepartmentRead,
		)).
		Grant(RoleCollaborator, NewPermissionSet())
}
