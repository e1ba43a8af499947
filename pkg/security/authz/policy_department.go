package authz

import "context"

// DepartmentPolicy governs department management. Admins override;
// otherwise access requires a manager-class role AND membership in the
// targeted department — a manager of department A is denied for
// department B.
type DepartmentPolicy struct{}

// NewDepartmentPolicy creates the department management policy.
func NewDepartmentPolicy() *DepartmentPolicy {
	return &DepartmentPolicy{}
}

// Name implements Policy.
func (p *DepartmentPolicy) Name() string {
	return "department_management"
}

// Evaluate implements Policy.
func (p *DepartmentPolicy) Evaluate(_ context.Context, subject Subject, req RequestContext) Result {
	if req.ResourceType != ResourceDepartment {
		return NotApplicable()
	}

	if subject.IsAdmin() {
		return Applicable(Allow(ReasonAdminOverride))
	}

	if subject.IsManager() && subject.InDepartment(req.DepartmentID) {
		return Applicable(Allow(ReasonDepartmentManager))
	}
	return Applicable(Deny(ReasonNotDepartmentManager))
}
