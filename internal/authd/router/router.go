// Package router wires the auth service routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/internal/authd/biz"
	"github.com/pactum-io/pactum/internal/authd/handler"
	"github.com/pactum-io/pactum/internal/authd/store"
	mwauth "github.com/pactum-io/pactum/pkg/infra/middleware/auth"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// Deps are the runtime dependencies of the route tree.
type Deps struct {
	Tokens   *authn.Service
	Engine   *authz.Engine
	Registry *authz.Registry
	Store    store.Factory
}

// Register registers all auth service routes on the gin engine.
func Register(r *gin.Engine, deps Deps) {
	access := biz.NewAccessService(deps.Engine, deps.Registry, deps.Store)
	contracts := biz.NewContractService(deps.Registry, deps.Store)
	collab := biz.NewCollabService(deps.Store)

	tokenHandler := handler.NewTokenHandler(deps.Tokens)
	accessHandler := handler.NewAccessHandler(access)
	contractHandler := handler.NewContractHandler(contracts)
	collabHandler := handler.NewCollabHandler(collab)

	r.GET("/healthz", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Token endpoints are the unauthenticated surface: they are how a
	// caller obtains credentials in the first place.
	tokens := r.Group("/api/v1/tokens")
	{
		tokens.POST("", tokenHandler.Issue)
		tokens.POST("/verify", tokenHandler.Verify)
		tokens.POST("/refresh", tokenHandler.Refresh)
	}

	// Everything else requires a verified access token.
	v1 := r.Group("/api/v1", mwauth.Authenticate(deps.Tokens))

	v1.POST("/authz/check", accessHandler.Check)
	v1.GET("/authz/policies", accessHandler.Policies)

	v1.GET("/admin/dashboard",
		mwauth.Authorize(deps.Engine, mwauth.StaticRequest(authz.RequestContext{
			ResourceType: authz.ResourceAdminPage,
			Action:       authz.ActionRead,
		})),
		func(c *gin.Context) {
			response.OK(c, gin.H{"page": "admin-dashboard"})
		},
	)

	v1.PUT("/departments/:id",
		mwauth.Authorize(deps.Engine, departmentRequest),
		func(c *gin.Context) {
			response.OK(c, gin.H{"department": c.Param("id"), "managed": true})
		},
	)

	contractsGroup := v1.Group("/contracts")
	{
		contractsGroup.POST("", contractHandler.Create)
		contractsGroup.GET("/:id",
			mwauth.Authorize(deps.Engine, contractRequest(access, authz.ActionRead)),
			contractHandler.Get)
		contractsGroup.PUT("/:id",
			mwauth.Authorize(deps.Engine, contractRequest(access, authz.ActionWrite)),
			contractHandler.Update)
		contractsGroup.DELETE("/:id", contractHandler.Delete)
		contractsGroup.GET("/:id/export",
			mwauth.Authorize(deps.Engine, contractRequest(access, authz.ActionExport)),
			contractHandler.Export)
		contractsGroup.POST("/:id/approve",
			mwauth.Authorize(deps.Engine, contractRequest(access, authz.ActionApprove)),
			contractHandler.Approve)

		contractsGroup.GET("/:id/capabilities", accessHandler.Capabilities)

		contractsGroup.GET("/:id/collaborators",
			mwauth.Authorize(deps.Engine, contractRequest(access, authz.ActionRead)),
			collabHandler.List)
		contractsGroup.POST("/:id/collaborators", collabHandler.Grant)
		contractsGroup.DELETE("/:id/collaborators/:user_id", collabHandler.Revoke)
	}

	logger.Infow("routes registered", "policies", deps.Engine.Policies())
}

// departmentRequest builds the authorization request for managing the
// department named in the path.
func departmentRequest(c *gin.Context) (authz.RequestContext, error) {
	return authz.RequestContext{
		ResourceType: authz.ResourceDepartment,
		Action:       authz.ActionManage,
		ResourceID:   c.Param("id"),
		DepartmentID: c.Param("id"),
	}, nil
}

// contractRequest builds the authorization request for an action on the
// contract named in the path, loading its state from the store.
func contractRequest(access *biz.AccessService, action authz.Action) mwauth.RequestBuilder {
	return func(c *gin.Context) (authz.RequestContext, error) {
		return access.ContractRequest(c.Request.Context(), c.Param("id"), action)
	}
}
