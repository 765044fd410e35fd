package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/contract-approval/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AmountRuleRequest is the body for creating an agreement or decision rule.
// A max_amount of 0 means no upper limit.
type AmountRuleRequest struct {
	MinAmount   int64  `json:"min_amount"`
	MaxAmount   int64  `json:"max_amount"`
	Stakeholder string `json:"stakeholder" binding:"required"`
}

// TypeRuleRequest is the body for creating a contract-type rule
type TypeRuleRequest struct {
	ContractType string `json:"contract_type" binding:"required"`
	Approver     string `json:"approver" binding:"required"`
	Basis        string `json:"basis"`
}

// AmountQuery carries the amount and category of a contract
type AmountQuery struct {
	Amount   int64  `form:"amount"`
	Category string `form:"category"`
}

// ListAmountRules handles GET /api/rules/{agreements,decisions}
func (h *Handlers) ListAmountRules(kind entity.RuleKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rules, err := h.matrixService.ListAmountRules(c.Request.Context(), kind)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, rules)
	}
}

// CreateAmountRule handles POST /api/rules/{agreements,decisions}
func (h *Handlers) CreateAmountRule(kind entity.RuleKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRuleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBadRequest(c, "invalid request body", err)
			return
		}

		rule := &entity.AmountRule{
			Kind:        kind,
			MinAmount:   req.MinAmount,
			MaxAmount:   req.MaxAmount,
			Stakeholder: req.Stakeholder,
		}
		if err := h.matrixService.CreateAmountRule(c.Request.Context(), rule); err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, rule)
	}
}

// DeleteAmountRule handles DELETE /api/rules/{agreements,decisions}/:id
func (h *Handlers) DeleteAmountRule(kind entity.RuleKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.paramInt64(c, "id")
		if !ok {
			return
		}
		if err := h.matrixService.DeleteAmountRule(c.Request.Context(), kind, id); err != nil {
			h.respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"id": id})
	}
}

// ListTypeRules handles GET /api/rules/types
func (h *Handlers) ListTypeRules(c *gin.Context) {
	rules, err := h.matrixService.ListTypeRules(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, rules)
}

// CreateTypeRule handles POST /api/rules/types
func (h *Handlers) CreateTypeRule(c *gin.Context) {
	var req TypeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, "invalid request body", err)
		return
	}

	category, err := entity.ParseCategory(req.ContractType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	rule := &entity.TypeRule{
		ContractType: category,
		Approver:     req.Approver,
		Basis:        req.Basis,
	}
	if err := h.matrixService.CreateTypeRule(c.Request.Context(), rule); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, rule)
}

// DeleteTypeRule handles DELETE /api/rules/types/:id
func (h *Handlers) DeleteTypeRule(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.matrixService.DeleteTypeRule(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// GetApprovalMatrix handles GET /api/approval-matrix
func (h *Handlers) GetApprovalMatrix(c *gin.Context) {
	brackets, err := h.matrixService.Brackets(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, brackets)
}

// LookupApprovalMatrix handles GET /api/approval-matrix/lookup?amount=&category=
func (h *Handlers) LookupApprovalMatrix(c *gin.Context) {
	var q AmountQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondBadRequest(c, "invalid query parameters", err)
		return
	}

	result, err := h.matrixService.Lookup(c.Request.Context(), q.Amount, entity.Category(q.Category))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ExportApprovalMatrix handles GET /api/approval-matrix/export
func (h *Handlers) ExportApprovalMatrix(c *gin.Context) {
	data, err := h.matrixService.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="approval-matrix.xlsx"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetApprovalLine handles GET /api/approval-line?amount=&category=.
// Unknown categories get the steps every contract needs and nothing more.
func (h *Handlers) GetApprovalLine(c *gin.Context) {
	var q AmountQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondBadRequest(c, "invalid query parameters", err)
		return
	}

	steps, err := h.matrixService.ApprovalLine(q.Amount, entity.Category(q.Category))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, steps)
}
