// Package handler provides the HTTP handlers of the auth service.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// TokenHandler handles session token requests.
type TokenHandler struct {
	tokens *authn.Service
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens *authn.Service) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// subjectDocument is the identity payload supplied by the identity
// layer when issuing or refreshing tokens.
type subjectDocument struct {
	UserID        string   `json:"user_id" binding:"required"`
	Roles         []string `json:"roles"`
	DepartmentIDs []string `json:"department_ids"`
}

func (d *subjectDocument) toSubject() authz.Subject {
	roles := make([]authz.Role, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = authz.Role(r)
	}
	return authz.Subject{
		ID:            d.UserID,
		Roles:         roles,
		DepartmentIDs: d.DepartmentIDs,
	}
}

// Issue creates a token pair for an authenticated identity.
func (h *TokenHandler) Issue(c *gin.Context) {
	var req subjectDocument
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	pair, err := h.tokens.IssueTokens(c.Request.Context(), req.toSubject())
	if err != nil {
		logger.Errorw("token issuance failed", "subject", req.UserID, "error", err)
		response.Fail(c, err)
		return
	}

	logger.Infow("tokens issued", "subject", req.UserID, "roles", req.Roles)
	response.OK(c, pair)
}

// VerifyRequest is the request body for token introspection.
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// Verify introspects a token. The endpoint always answers 200: an
// invalid token is a valid introspection result, not a transport error.
func (h *TokenHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	response.OK(c, h.tokens.Verify(c.Request.Context(), req.Token))
}

// RefreshRequest is the request body for token refresh. The identity
// layer re-supplies the subject's current roles so a refresh picks up
// role changes since login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	subjectDocument
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *TokenHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), req.RefreshToken, req.toSubject())
	if err != nil {
		logger.Warnw("token refresh failed", "subject", req.UserID, "error", err)
		response.Fail(c, err)
		return
	}

	response.OK(c, pair)
}
