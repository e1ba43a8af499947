package authz

import (
	"context"
	"testing"
)

func defaultChain() *Engine {
	return NewEngine(
		NewAdminPagePolicy(),
		NewDepartmentPolicy(),
		NewContractPolicy(),
	)
}

var (
	adminSubject   = Subject{ID: "admin-1", Roles: []Role{RoleAdmin}}
	managerA       = Subject{ID: "mgr-a", Roles: []Role{RoleManager}, DepartmentIDs: []string{"dep-a"}}
	staffSubject   = Subject{ID: "staff-1", Roles: []Role{RoleStaff}}
	bareCollabUser = Subject{ID: "u5", Roles: []Role{RoleCollaborator}}
)

func TestAdminPagePolicy(t *testing.T) {
	engine := defaultChain()
	ctx := context.Background()
	req := RequestContext{ResourceType: ResourceAdminPage, Action: ActionRead}

	tests := []struct {
		name       string
		subject    Subject
		wantAllow  bool
		wantReason string
	}{
		{"admin allowed", adminSubject, true, ReasonAdminAllowed},
		{"manager denied", managerA, false, ReasonAdminOnly},
		{"staff denied", staffSubject, false, ReasonAdminOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Authorize(ctx, tt.subject, req)
			if d.Allow != tt.wantAllow || d.Reason != tt.wantReason {
				t.Errorf("decision = %+v, want allow=%v reason=%s", d, tt.wantAllow, tt.wantReason)
			}
			if d.Policy != "admin_page" {
				t.Errorf("policy = %q, want admin_page", d.Policy)
			}
		})
	}
}

// TestDepartmentIsolation verifies that a manager of department A is
// denied for department B, while admin overrides everywhere.
func TestDepartmentIsolation(t *testing.T) {
	engine := defaultChain()
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    Subject
		department string
		wantAllow  bool
		wantReason string
	}{
		{"manager own department", managerA, "dep-a", true, ReasonDepartmentManager},
		{"manager foreign department", managerA, "dep-b", false, ReasonNotDepartmentManager},
		{"admin foreign department", adminSubject, "dep-b", true, ReasonAdminOverride},
		{"staff own-ish department", staffSubject, "dep-a", false, ReasonNotDepartmentManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Authorize(ctx, tt.subject, RequestContext{
				ResourceType: ResourceDepartment,
				Action:       ActionManage,
				DepartmentID: tt.department,
			})
			if d.Allow != tt.wantAllow || d.Reason != tt.wantReason {
				t.Errorf("decision = %+v, want allow=%v reason=%s", d, tt.wantAllow, tt.wantReason)
			}
		})
	}
}

func contractReq(action Action, cc *ContractContext) RequestContext {
	return RequestContext{
		ResourceType: ResourceContract,
		Action:       action,
		ResourceID:   "c-1",
		Contract:     cc,
	}
}

// TestContractReadVisibility covers the public/private read matrix.
func TestContractReadVisibility(t *testing.T) {
	engine := defaultChain()
	ctx := context.Background()

	privateEmpty := &ContractContext{IsPublic: false}
	public := &ContractContext{IsPublic: true}
	privateWithU5 := &ContractContext{IsPublic: false, ParticipantUserIDs: []string{"u5"}}

	tests := []struct {
		name       string
		subject    Subject
		contract   *ContractContext
		wantAllow  bool
		wantReason string
	}{
		{"manager reads private non-participant", managerA, privateEmpty, true, ReasonAllManagersCanReadContract},
		{"staff reads public", staffSubject, public, true, ReasonPublicContract},
		{"bare collaborator cannot read public", bareCollabUser, public, false, ReasonPublicContractStaffOnly},
		{"participant reads private", bareCollabUser, privateWithU5, true, ReasonPrivateParticipant},
		{"staff cannot read private", staffSubject, privateWithU5, false, ReasonPrivateNotParticipant},
		{"admin override", adminSubject, privateEmpty, true, ReasonAdminOverride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Authorize(ctx, tt.subject, contractReq(ActionRead, tt.contract))
			if d.Allow != tt.wantAllow || d.Reason != tt.wantReason {
				t.Errorf("decision = %+v, want allow=%v reason=%s", d, tt.wantAllow, tt.wantReason)
			}
		})
	}
}

// TestContractWriteRestriction verifies writes require participation —
// a manager role alone does not authorize writes.
func TestContractWriteRestriction(t *testing.T) {
	engine := defaultChain()
	ctx := context.Background()
	cc := &ContractContext{IsPublic: false, ParticipantUserIDs: []string{"u5"}}

	tests := []struct {
		name       string
		subject    Subject
		wantAllow  bool
		wantReason string
	}{
		{"participant writes", bareCollabUser, true, ReasonContractCollaboratorWrite},
		{"manager cannot write", managerA, false, ReasonWriteNotParticipant},
		{"staff cannot write", staffSubject, false, ReasonWriteNotParticipant},
		{"admin override", adminSubject, true, ReasonAdminOverride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Authorize(ctx, tt.subject, contractReq(ActionWrite, cc))
			if d.Allow != tt.wantAllow || d.Reason != tt.wantReason {
				t.Errorf("decision = %+v, want allow=%v reason=%s", d, tt.wantAllow, tt.wantReason)
			}
		})
	}
}

func TestContractExportAndApprove(t *testing.T) {
	engine := defaultChain()
	ctx := context.Background()
	public := &ContractContext{IsPublic: true}

	// Export follows read visibility; managers are always allowed.
	d := engine.Authorize(ctx, managerA, contractReq(ActionExport, &ContractContext{}))
	if !d.Allow || d.Reason != ReasonAllManagersCanReadContract {
		t.Errorf("manager export = %+v", d)
	}
	d = engine.Authorize(ctx, staffSubject, contractReq(ActionExport, public))
	if !d.Allow || d.Reason != ReasonPublicContract {
		t.Errorf("staff export of public = %+v", d)
	}

	// Approve is manager-only.
	d = engine.Authorize(ctx, managerA, contractReq(ActionApprove, public))
	if !d.Allow || d.Reason != ReasonManagerCanApprove {
		t.Errorf("manager approve = %+v", d)
	}
	d = engine.Authorize(ctx, staffSubject, contractReq(ActionApprove, public))
	if d.Allow || d.Reason != ReasonApproveRequiresManager {
		t.Errorf("staff approve = %+v", d)
	}
}

// TestContractMissingContext verifies a contract request without context
// is an explicit deny, not a crash.
func TestContractMissingContext(t *testing.T) {
	engine := defaultChain()

	d := engine.Authorize(context.Background(), staffSubject, contractReq(ActionRead, nil))
	if d.Allow || d.Reason != ReasonMissingContractContext {
		t.Errorf("decision = %+v, want MISSING_CONTRACT_CONTEXT deny", d)
	}

	// Admin override still applies without context.
	d = engine.Authorize(context.Background(), adminSubject, contractReq(ActionWrite, nil))
	if !d.Allow || d.Reason != ReasonAdminOverride {
		t.Errorf("admin decision = %+v, want ADMIN_OVERRIDE", d)
	}
}
