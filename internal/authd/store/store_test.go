package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/options/sqlite"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

// factories under test: the gorm/SQLite store and the in-memory store
// must behave identically.
func testFactories(t *testing.T) map[string]Factory {
	t.Helper()

	opts := sqlite.NewOptions()
	opts.Path = ":memory:"
	opts.LogLevel = "silent"
	db, err := NewSQLiteFactory(opts)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Factory{
		"sqlite": db,
		"memory": NewMemoryFactory(),
	}
}

func TestContractStore(t *testing.T) {
	for name, factory := range testFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			contracts := factory.Contracts()

			contract := &model.Contract{
				ID:           "c-1",
				Title:        "Supply agreement",
				DepartmentID: "dep-a",
				OwnerID:      "u-owner",
				IsPublic:     false,
			}
			require.NoError(t, contracts.Create(ctx, contract))
			assert.Error(t, contracts.Create(ctx, contract), "duplicate ID must be rejected")

			got, err := contracts.Get(ctx, "c-1")
			require.NoError(t, err)
			assert.Equal(t, "Supply agreement", got.Title)
			assert.False(t, got.IsPublic)

			got.IsPublic = true
			require.NoError(t, contracts.Update(ctx, got))
			got, err = contracts.Get(ctx, "c-1")
			require.NoError(t, err)
			assert.True(t, got.IsPublic)

			require.NoError(t, contracts.Delete(ctx, "c-1"))
			_, err = contracts.Get(ctx, "c-1")
			assert.Error(t, err)
			assert.Error(t, contracts.Delete(ctx, "c-1"))
		})
	}
}

func TestCollaboratorStore(t *testing.T) {
	for name, factory := range testFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			grants := factory.Collaborators()

			require.NoError(t, grants.Upsert(ctx, &model.Collaborator{
				ResourceID: "c-1", UserID: "u-1", Role: "viewer", Active: true,
			}))
			require.NoError(t, grants.Upsert(ctx, &model.Collaborator{
				ResourceID: "c-1", UserID: "u-2", Role: "editor", Active: true,
			}))

			role, ok, err := grants.ActiveGrant(ctx, "c-1", "u-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, authz.CollaboratorViewer, role)

			// Upsert replaces the existing grant rather than duplicating it.
			require.NoError(t, grants.Upsert(ctx, &model.Collaborator{
				ResourceID: "c-1", UserID: "u-1", Role: "owner", Active: true,
			}))
			role, ok, err = grants.ActiveGrant(ctx, "c-1", "u-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, authz.CollaboratorOwner, role)

			active, err := grants.ListActive(ctx, "c-1")
			require.NoError(t, err)
			require.Len(t, active, 2)
			assert.Equal(t, "u-1", active[0].UserID)
			assert.Equal(t, "u-2", active[1].UserID)

			// Deactivation hides the grant from reads.
			require.NoError(t, grants.Deactivate(ctx, "c-1", "u-1"))
			_, ok, err = grants.ActiveGrant(ctx, "c-1", "u-1")
			require.NoError(t, err)
			assert.False(t, ok)

			active, err = grants.ListActive(ctx, "c-1")
			require.NoError(t, err)
			assert.Len(t, active, 1)

			assert.Error(t, grants.Deactivate(ctx, "c-1", "u-1"), "double deactivation must fail")

			// A fresh upsert reactivates.
			require.NoError(t, grants.Upsert(ctx, &model.Collaborator{
				ResourceID: "c-1", UserID: "u-1", Role: "reviewer", Active: true,
			}))
			role, ok, err = grants.ActiveGrant(ctx, "c-1", "u-1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, authz.CollaboratorReviewer, role)
		})
	}
}
