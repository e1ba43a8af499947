package authz

import "context"

// ContractPolicy governs contract access for both public and private
// contracts.
//
// Rules, in evaluation order:
//
//   - Admin-class role always allows (ADMIN_OVERRIDE).
//   - A contract-typed request without contract context is denied with
//     MISSING_CONTRACT_CONTEXT; it never crashes the evaluator.
//   - WRITE requires participation in the contract. A manager role does
//     not by itself authorize writes.
//   - READ is open to all managers regardless of visibility or
//     participation; public contracts are readable by staff-or-higher;
//     private contracts are readable by participants only.
//   - EXPORT follows read visibility.
//   - APPROVE is manager-only.
type ContractPolicy struct{}

// NewContractPolicy creates the contract policy.
func NewContractPolicy() *ContractPolicy {
	return &ContractPolicy{}
}

// Name implements Policy.
func (p *ContractPolicy) Name() string {
	return "contract_access"
}

// Evaluate implements Policy.
func (p *ContractPolicy) Evaluate(_ context.Context, subject Subject, req RequestContext) Result {
	if req.ResourceType != ResourceContract {
		return NotApplicable()
	}

	if subject.IsAdmin() {
		return Applicable(Allow(ReasonAdminOverride))
	}

	cc := req.Contract
	if cc == nil {
		return Applicable(Deny(ReasonMissingContractContext))
	}

	switch req.Action {
	case ActionWrite:
		if cc.HasParticipant(subject.ID) {
			return Applicable(Allow(ReasonContractCollaboratorWrite))
		}
		return Applicable(Deny(ReasonWriteNotParticipant))

	case ActionApprove:
		if subject.IsManager() {
			return Applicable(Allow(ReasonManagerCanApprove))
		}
		return Applicable(Deny(ReasonApproveRequiresManager))

	case ActionRead, ActionExport:
		return Applicable(p.evaluateRead(subject, cc))

	default:
		// MANAGE and unknown actions have no contract rule: fail closed.
		return Applicable(Deny(ReasonUnsupportedContractAction))
	}
}

// evaluateRead applies contract read visibility.
func (p *ContractPolicy) evaluateRead(subject Subject, cc *ContractContext) Decision {
	if subject.IsManager() {
		return Allow(ReasonAllManagersCanReadContract)
	}

	if cc.IsPublic {
		if subject.IsStaffOrHigher() {
			return Allow(ReasonPublicContract)
		}
		return Deny(ReasonPublicContractStaffOnly)
	}

	if cc.HasParticipant(subject.ID) {
		return Allow(ReasonPrivateParticipant)
	}
	return Deny(ReasonPrivateNotParticipant)
}
