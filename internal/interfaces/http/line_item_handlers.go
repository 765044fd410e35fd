package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/contract-approval/internal/application/service"
	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// CreateLineItemRequest is the body for creating a line item
type CreateLineItemRequest struct {
	ProposalID  int64               `json:"proposal_id"`
	Name        string              `json:"name" binding:"required"`
	Category    string              `json:"category" binding:"required"`
	Amount      float64             `json:"amount"`
	Allocations []entity.Allocation `json:"allocations"`
}

// CreateLineItem handles POST /api/line-items
func (h *Handlers) CreateLineItem(c *gin.Context) {
	var req CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, "invalid request body", err)
		return
	}

	category, err := entity.ParseCategory(req.Category)
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.allocationService.Create(c.Request.Context(), &entity.LineItem{
		ProposalID:  req.ProposalID,
		Name:        req.Name,
		Category:    category,
		Amount:      req.Amount,
		Allocations: req.Allocations,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, view)
}

// GetLineItem handles GET /api/line-items/:id
func (h *Handlers) GetLineItem(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}

	view, err := h.allocationService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// AddAllocation handles POST /api/line-items/:id/allocations
func (h *Handlers) AddAllocation(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}

	view, err := h.allocationService.AddAllocation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// UpdateAllocation handles PUT /api/line-items/:id/allocations/:index
func (h *Handlers) UpdateAllocation(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}
	index, ok := h.paramIndex(c, "index")
	if !ok {
		return
	}

	var update service.AllocationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.respondBadRequest(c, "invalid request body", err)
		return
	}

	view, err := h.allocationService.UpdateAllocation(c.Request.Context(), id, index, update)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// RemoveAllocation handles DELETE /api/line-items/:id/allocations/:index
func (h *Handlers) RemoveAllocation(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}
	index, ok := h.paramIndex(c, "index")
	if !ok {
		return
	}

	view, err := h.allocationService.RemoveAllocation(c.Request.Context(), id, index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// FinalizeLineItem handles POST /api/line-items/:id/finalize
func (h *Handlers) FinalizeLineItem(c *gin.Context) {
	id, ok := h.paramInt64(c, "id")
	if !ok {
		return
	}

	view, err := h.allocationService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}
