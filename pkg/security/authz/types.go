package authz

import "context"

// Role is a global role name carried in the subject's token claims.
type Role string

// Built-in roles, ordered from most to least privileged.
const (
	// RoleAdmin overrides every registered policy.
	RoleAdmin Role = "admin"

	// RoleManager is the manager-class role: department management within
	// owned departments, unrestricted contract reads.
	RoleManager Role = "manager"

	// RoleStaff is the staff-class role: public contract visibility,
	// contract creation.
	RoleStaff Role = "staff"

	// RoleCollaborator carries no global grants; all access derives from
	// per-contract collaborator records.
	RoleCollaborator Role = "collaborator"
)

// Subject is the authenticated identity making a request. It is built
// from verified token claims, constructed per request, and immutable for
// the lifetime of that request.
type Subject struct {
	// ID is the subject (user) identifier.
	ID string `json:"id"`

	// Roles are the subject's global roles.
	Roles []Role `json:"roles"`

	// DepartmentIDs are the departments the subject belongs to.
	DepartmentIDs []string `json:"department_ids"`
}

// HasRole reports whether the subject holds the given role.
func (s Subject) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the subject holds the admin-class role.
func (s Subject) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// IsManager reports whether the subject holds a manager-class role.
// Admin is not implied; the admin override is applied by each policy
// explicitly so that it shows up in the decision reason.
func (s Subject) IsManager() bool {
	return s.HasRole(RoleManager)
}

// IsStaffOrHigher reports whether the subject holds staff, manager, or
// admin.
func (s Subject) IsStaffOrHigher() bool {
	return s.HasRole(RoleStaff) || s.HasRole(RoleManager) || s.HasRole(RoleAdmin)
}

// InDepartment reports whether the subject belongs to the department.
func (s Subject) InDepartment(departmentID string) bool {
	for _, id := range s.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// ResourceType identifies the kind of resource a request targets.
type ResourceType string

const (
	ResourceAdminPage  ResourceType = "admin_page"
	ResourceDepartment ResourceType = "department"
	ResourceContract   ResourceType = "contract"
	ResourceTemplate   ResourceType = "template"
)

// Action is the operation a request wants to perform.
type Action string

const (
	ActionRead    Action = "READ"
	ActionWrite   Action = "WRITE"
	ActionManage  Action = "MANAGE"
	ActionApprove Action = "APPROVE"
	ActionExport  Action = "EXPORT"
)

// ContractContext carries the contract state a contract-typed request is
// evaluated against. Callers load it from the contract record; the engine
// never fetches contract state itself.
type ContractContext struct {
	// DepartmentID is the owning department.
	DepartmentID string `json:"department_id"`

	// IsPublic marks the contract readable by staff-or-higher roles.
	IsPublic bool `json:"is_public"`

	// ParticipantUserIDs are the subjects collaborating on the contract.
	ParticipantUserIDs []string `json:"participant_user_ids"`
}

// HasParticipant reports whether the user is a contract participant.
func (c *ContractContext) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.ParticipantUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RequestContext describes one authorization request. It is built by the
// caller (route middleware) per request and discarded after the decision.
type RequestContext struct {
	// ResourceType selects which policies in the chain apply.
	ResourceType ResourceType `json:"resource_type"`

	// Action is the requested operation.
	Action Action `json:"action"`

	// ResourceID is the targeted resource instance, when applicable.
	ResourceID string `json:"resource_id,omitempty"`

	// DepartmentID is the targeted department for department requests.
	DepartmentID string `json:"department_id,omitempty"`

	// Contract is required for contract-typed requests.
	Contract *ContractContext `json:"contract,omitempty"`
}

// Decision is the outcome of an authorization request: allow or deny,
// with a machine-readable reason and the policy that produced it.
type Decision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason"`
	Policy string `json:"policy,omitempty"`
}

// Decision reason values. These are part of the audit contract: callers
// and log pipelines match on them, so they are stable strings.
const (
	ReasonAdminAllowed  = "ADMIN_ALLOWED"
	ReasonAdminOnly     = "ADMIN_ONLY"
	ReasonAdminOverride = "ADMIN_OVERRIDE"

	ReasonDepartmentManager    = "DEPARTMENT_MANAGER"
	ReasonNotDepartmentManager = "NOT_DEPARTMENT_MANAGER"

	ReasonContractCollaboratorWrite  = "CONTRACT_COLLABORATOR_WRITE"
	ReasonWriteNotParticipant        = "WRITE_NOT_PARTICIPANT"
	ReasonAllManagersCanReadContract = "ALL_MANAGERS_CAN_READ_CONTRACT"
	ReasonPublicContract             = "PUBLIC_CONTRACT"
	ReasonPublicContractStaffOnly    = "PUBLIC_CONTRACT_STAFF_ONLY"
	ReasonPrivateParticipant         = "PRIVATE_CONTRACT_PARTICIPANT"
	ReasonPrivateNotParticipant      = "PRIVATE_CONTRACT_NOT_PARTICIPANT"
	ReasonMissingContractContext     = "MISSING_CONTRACT_CONTEXT"
	ReasonManagerCanApprove          = "CONTRACT_MANAGER_APPROVE"
	ReasonApproveRequiresManager     = "APPROVE_REQUIRES_MANAGER"
	ReasonUnsupportedContractAction  = "UNSUPPORTED_CONTRACT_ACTION"

	ReasonNoPolicyMatched = "NO_POLICY_MATCHED"
)

// Allow builds an allow decision with the given reason.
func Allow(reason string) Decision {
	return Decision{Allow: true, Reason: reason}
}

// Deny builds a deny decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Result is the tagged outcome of a single policy evaluation: either a
// final Decision, or "not applicable, try the next policy in the chain".
// The zero value is not applicable, so a policy that falls through
// without deciding skips to the next chain entry.
type Result struct {
	applicable bool
	decision   Decision
}

// Applicable wraps a final decision.
func Applicable(d Decision) Result {
	return Result{applicable: true, decision: d}
}

// NotApplicable signals that the policy does not govern this resource
// type. It never leaks out of the engine as a final decision.
func NotApplicable() Result {
	return Result{}
}

// Policy is one entry in the policy chain. Evaluate must be a pure
// function of its inputs: no side effects, no hidden state.
type Policy interface {
	// Name identifies the policy in decisions and audit logs.
	Name() string

	// Evaluate returns the final decision for the request, or
	// NotApplicable if this policy does not govern its resource type.
	Evaluate(ctx context.Context, subject Subject, req RequestContext) Result
}
