package authz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// Engine evaluates the ordered policy chain.
//
// Registration order is significant: the first policy that returns an
// applicable result supplies the final decision and later policies are
// never consulted for that request. The chain is fixed after construction,
// so any number of requests may be evaluated concurrently without locking.
type Engine struct {
	policies []Policy
}

// NewEngine creates an engine with the given chain, in order.
// It panics on a malformed registration (nil policy, empty or duplicate
// name) — that is a programming error in the composition root, not a
// runtime condition.
func NewEngine(policies ...Policy) *Engine {
	seen := make(map[string]struct{}, len(policies))
	for _, p := range policies {
		if p == nil {
			panic(errors.ErrPolicyRegistration.WithMessage("nil policy in chain"))
		}
		name := p.Name()
		if name == "" {
			panic(errors.ErrPolicyRegistration.WithMessage("policy with empty name"))
		}
		if _, dup := seen[name]; dup {
			panic(errors.ErrPolicyRegistration.WithMessagef("duplicate policy name: %s", name))
		}
		seen[name] = struct{}{}
	}

	return &Engine{policies: policies}
}

// Policies returns the chain names in evaluation order.
func (e *Engine) Policies() []string {
	names := make([]string, len(e.policies))
	for i, p := range e.policies {
		names[i] = p.Name()
	}
	return names
}

// Authorize renders the decision for one request.
//
// Policies are consulted strictly in registration order; the first
// applicable result wins and is tagged with that policy's name. If no
// policy claims the resource type the request is denied with
// NO_POLICY_MATCHED — fail closed by default.
func (e *Engine) Authorize(ctx context.Context, subject Subject, req RequestContext) Decision {
	for _, p := range e.policies {
		result := p.Evaluate(ctx, subject, req)
		if !result.applicable {
			continue
		}

		decision := result.decision
		decision.Policy = p.Name()
		logDecision(subject, req, decision)
		return decision
	}

	decision := Deny(ReasonNoPolicyMatched)
	logDecision(subject, req, decision)
	return decision
}

// logDecision records every rendered decision for security audit.
func logDecision(subject Subject, req RequestContext, d Decision) {
	if d.Allow {
		logger.Infow("authorization allowed",
			"subject", subject.ID,
			"resource_type", string(req.ResourceType),
			"resource_id", req.ResourceID,
			"action", string(req.Action),
			"reason", d.Reason,
			"policy", d.Policy,
		)
		return
	}

	logger.Warnw("authorization denied",
		"subject", subject.ID,
		"resource_type", string(req.ResourceType),
		"resource_id", req.ResourceID,
		"action", string(req.Action),
		"reason", d.Reason,
		"policy", d.Policy,
	)
}
