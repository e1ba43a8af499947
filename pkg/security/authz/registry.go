package authz

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// PolicyContext carries the caller's identity into resource policy
// checks. It is built per request from verified claims plus any
// route-specific extras.
type PolicyContext struct {
	// UserID is the subject identifier.
	UserID string

	// Roles are the subject's global roles.
	Roles []Role

	// DepartmentID is the department scope of the request, if any.
	DepartmentID string

	// Extra carries route-specific attributes consumed by individual
	// resource policies.
	Extra map[string]interface{}
}

// hasRole reports whether the context carries the role.
func (pc *PolicyContext) hasRole(role Role) bool {
	for _, r := range pc.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ResourcePolicy answers capability-style questions about a single
// resource instance. All methods share one context-aware contract so
// implementations may perform I/O (e.g. consult the grant resolver) and
// so Capabilities can fan them out uniformly.
type ResourcePolicy interface {
	// Resource returns the resource type this policy answers for.
	Resource() ResourceType

	// CanView reports whether the caller may view the instance.
	CanView(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error)

	// CanCreate reports whether the caller may create instances.
	CanCreate(ctx context.Context, pc *PolicyContext) (bool, error)

	// CanUpdate reports whether the caller may update the instance.
	CanUpdate(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error)

	// CanDelete reports whether the caller may delete the instance.
	CanDelete(ctx context.Context, resourceID string, pc *PolicyContext) (bool, error)
}

// Capabilities is the precomputed capability map for one resource view,
// intended to be computed once and sent to a client rather than
// re-derived per UI action.
type Capabilities struct {
	CanView   bool `json:"can_view"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
}

// Registry maps resource types to their ResourcePolicy. It is populated
// during startup and read-only thereafter; the mutex only guards against
// misuse during the init phase.
type Registry struct {
	mu       sync.RWMutex
	policies map[ResourceType]ResourcePolicy
}

// NewRegistry creates an empty resource policy registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[ResourceType]ResourcePolicy)}
}

// Register adds a resource policy. Registering a nil policy or a
// duplicate resource type is a programming error.
func (r *Registry) Register(policy ResourcePolicy) error {
	if policy == nil {
		return errors.ErrPolicyRegistration.WithMessage("nil resource policy")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rt := policy.Resource()
	if _, dup := r.policies[rt]; dup {
		return errors.ErrPolicyRegistration.WithMessagef("resource policy already registered: %s", rt)
	}
	r.policies[rt] = policy
	return nil
}

// Get returns the policy for a resource type, if registered.
func (r *Registry) Get(resourceType ResourceType) (ResourcePolicy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[resourceType]
	return p, ok
}

// List returns the registered resource types.
func (r *Registry) List() []ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ResourceType, 0, len(r.policies))
	for rt := range r.policies {
		out = append(out, rt)
	}
	return out
}

// Capabilities aggregates the view/update/delete checks for one resource
// instance into a single map. The three checks run concurrently; a check
// error fails the whole aggregation rather than reporting a half-built
// capability set.
func (r *Registry) Capabilities(ctx context.Context, resourceType ResourceType, resourceID string, pc *PolicyContext) (Capabilities, error) {
	policy, ok := r.Get(resourceType)
	if !ok {
		return Capabilities{}, errors.ErrNotFound.WithMessagef("no resource policy for %s", resourceType)
	}

	var caps Capabilities
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := policy.CanView(gctx, resourceID, pc)
		caps.CanView = v
		return err
	})
	g.Go(func() error {
		v, err := policy.CanUpdate(gctx, resourceID, pc)
		caps.CanUpdate = v
		return err
	})
	g.Go(func() error {
		v, err := policy.CanDelete(gctx, resourceID, pc)
		caps.CanDelete = v
		return err
	})

	if err := g.Wait(); err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}
