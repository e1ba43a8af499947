package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pactum-io/pactum/internal/authd/biz"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// AccessHandler answers authorization questions over HTTP.
type AccessHandler struct {
	access *biz.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(access *biz.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// CheckRequest is the request body for an explicit decision check.
type CheckRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	Action       string `json:"action" binding:"required"`
	ResourceID   string `json:"resource_id"`
	DepartmentID string `json:"department_id"`
}

// Check evaluates the policy chain for the authenticated subject and
// returns the decision. The answer is a decision document, not an
// enforcement: the endpoint responds 200 for denials too.
func (h *AccessHandler) Check(c *gin.Context) {
	subject, ok := authn.SubjectFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, errors.ErrUnauthorized.WithMessage("no subject found"))
		return
	}

	var body CheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	req := authz.RequestContext{
		ResourceType: authz.ResourceType(body.ResourceType),
		Action:       authz.Action(body.Action),
		ResourceID:   body.ResourceID,
		DepartmentID: body.DepartmentID,
	}

	// Contract decisions need the contract's visibility and participant
	// list loaded from the store.
	if req.ResourceType == authz.ResourceContract && body.ResourceID != "" {
		loaded, err := h.access.ContractRequest(c.Request.Context(), body.ResourceID, req.Action)
		if err != nil {
			response.Fail(c, err)
			return
		}
		req = loaded
	}

	response.OK(c, h.access.Check(c.Request.Context(), subject, req))
}

// Capabilities returns the authenticated subject's capability map on a
// contract.
func (h *AccessHandler) Capabilities(c *gin.Context) {
	subject, ok := authn.SubjectFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, errors.ErrUnauthorized.WithMessage("no subject found"))
		return
	}

	caps, err := h.access.Capabilities(c.Request.Context(), authz.ResourceContract, c.Param("id"), subject)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, caps)
}

// Policies lists the policy chain in evaluation order.
func (h *AccessHandler) Policies(c *gin.Context) {
	response.OK(c, gin.H{"policies": h.access.Policies()})
}
