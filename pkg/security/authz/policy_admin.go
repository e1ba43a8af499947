package authz

import "context"

// AdminPagePolicy gates admin pages: only admin-class subjects pass.
type AdminPagePolicy struct{}

// NewAdminPagePolicy creates the admin page policy.
func NewAdminPagePolicy() *AdminPagePolicy {
	return &AdminPagePolicy{}
}

// Name implements Policy.
func (p *AdminPagePolicy) Name() string {
	return "admin_page"
}

// Evaluate implements Policy.
func (p *AdminPagePolicy) Evaluate(_ context.Context, subject Subject, req RequestContext) Result {
	if req.ResourceType != ResourceAdminPage {
		return NotApplicable()
	}

	if subject.IsAdmin() {
		return Applicable(Allow(ReasonAdminAllowed))
	}
	return Applicable(Deny(ReasonAdminOnly))
}
