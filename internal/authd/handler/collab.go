package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/internal/authd/biz"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// CollabHandler manages collaboration grants on contracts.
type CollabHandler struct {
	collab *biz.CollabService
}

// NewCollabHandler creates a new CollabHandler.
func NewCollabHandler(collab *biz.CollabService) *CollabHandler {
	return &CollabHandler{collab: collab}
}

// GrantRequest is the request body for granting a collaboration role.
type GrantRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// Grant gives a user a collaboration role on the contract.
func (h *CollabHandler) Grant(c *gin.Context) {
	if !h.canManage(c) {
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	contractID := c.Param("id")
	grant, err := h.collab.Grant(c.Request.Context(), contractID, req.UserID, authz.CollaboratorRole(req.Role))
	if err != nil {
		response.Fail(c, err)
		return
	}

	logger.Infow("collaboration grant created",
		"contract", contractID, "user", req.UserID, "role", req.Role)
	response.OK(c, grant)
}

// canManage gates grant management: manager class or a collaborator
// holding the manage permission. Writes the 403 itself on denial.
func (h *CollabHandler) canManage(c *gin.Context) bool {
	subject := authn.MustSubjectFromContext(c.Request.Context())
	if !h.collab.CanManage(c.Request.Context(), subject, c.Param("id")) {
		response.Fail(c, errors.ErrAccessDenied.WithMessage("subject may not manage collaborators"))
		return false
	}
	return true
}

// Revoke deactivates a user's grant on the contract.
func (h *CollabHandler) Revoke(c *gin.Context) {
	if !h.canManage(c) {
		return
	}

	contractID := c.Param("id")
	userID := c.Param("user_id")

	if err := h.collab.Revoke(c.Request.Context(), contractID, userID); err != nil {
		response.Fail(c, err)
		return
	}

	logger.Infow("collaboration grant revoked", "contract", contractID, "user", userID)
	response.OK(c, gin.H{"revoked": true})
}

// List returns the active grants on the contract.
func (h *CollabHandler) List(c *gin.Context) {
	grants, err := h.collab.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, grants)
}
