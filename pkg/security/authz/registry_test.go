package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContractRegistry(t *testing.T, store GrantStore) *Registry {
	t.Helper()

	registry := NewRegistry()
	err := registry.Register(NewContractResourcePolicy(NewGrantResolver(store)))
	require.NoError(t, err)
	return registry
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := newContractRegistry(t, &fakeGrantStore{})

	_, ok := registry.Get(ResourceContract)
	assert.True(t, ok)

	_, ok = registry.Get(ResourceTemplate)
	assert.False(t, ok, "unregistered resource type must miss")

	assert.Len(t, registry.List(), 1)

	// Duplicate and nil registrations are rejected.
	err := registry.Register(NewContractResourcePolicy(NewGrantResolver(&fakeGrantStore{})))
	assert.Error(t, err)
	assert.Error(t, registry.Register(nil))
}

func TestContractResourcePolicyChecks(t *testing.T) {
	store := &fakeGrantStore{grants: map[string]CollaboratorRole{
		"c-1/u-owner":  CollaboratorOwner,
		"c-1/u-editor": CollaboratorEditor,
		"c-1/u-viewer": CollaboratorViewer,
	}}
	policy := NewContractResourcePolicy(NewGrantResolver(store))
	ctx := context.Background()

	manager := &PolicyContext{UserID: "mgr", Roles: []Role{RoleManager}}
	staff := &PolicyContext{UserID: "stf", Roles: []Role{RoleStaff}}
	editor := &PolicyContext{UserID: "u-editor", Roles: []Role{RoleCollaborator}}
	viewer := &PolicyContext{UserID: "u-viewer", Roles: []Role{RoleCollaborator}}
	owner := &PolicyContext{UserID: "u-owner", Roles: []Role{RoleCollaborator}}

	// View: manager class, else collaborator grant.
	for _, pc := range []*PolicyContext{manager, editor, viewer} {
		ok, err := policy.CanView(ctx, "c-1", pc)
		require.NoError(t, err)
		assert.True(t, ok, "CanView(%s)", pc.UserID)
	}
	ok, err := policy.CanView(ctx, "c-1", staff)
	require.NoError(t, err)
	assert.False(t, ok, "staff without a grant must not view")

	// Create: manager or staff.
	ok, err = policy.CanCreate(ctx, staff)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = policy.CanCreate(ctx, viewer)
	require.NoError(t, err)
	assert.False(t, ok)

	// Update: manager or editor grant.
	ok, err = policy.CanUpdate(ctx, "c-1", editor)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = policy.CanUpdate(ctx, "c-1", viewer)
	require.NoError(t, err)
	assert.False(t, ok)

	// Delete: manager or owner.
	ok, err = policy.CanDelete(ctx, "c-1", owner)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = policy.CanDelete(ctx, "c-1", editor)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryCapabilities(t *testing.T) {
	store := &fakeGrantStore{grants: map[string]CollaboratorRole{
		"c-1/u-editor": CollaboratorEditor,
	}}
	registry := newContractRegistry(t, store)
	ctx := context.Background()

	caps, err := registry.Capabilities(ctx, ResourceContract, "c-1",
		&PolicyContext{UserID: "u-editor", Roles: []Role{RoleCollaborator}})
	require.NoError(t, err)
	assert.Equal(t, Capabilities{CanView: true, CanUpdate: true, CanDelete: false}, caps)

	caps, err = registry.Capabilities(ctx, ResourceContract, "c-1",
		&PolicyContext{UserID: "mgr", Roles: []Role{RoleManager}})
	require.NoError(t, err)
	assert.Equal(t, Capabilities{CanView: true, CanUpdate: true, CanDelete: true}, caps)

	_, err = registry.Capabilities(ctx, ResourceTemplate, "t-1", &PolicyContext{UserID: "mgr"})
	assert.Error(t, err, "unregistered resource type has no capabilities")
}
