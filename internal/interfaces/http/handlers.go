package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/contract-approval/internal/application/service"
	"github.com/garyjia/contract-approval/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	matrixService     service.ApprovalMatrixService
	allocationService service.AllocationService
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	matrixService service.ApprovalMatrixService,
	allocationService service.AllocationService,
	logger Logger,
) *Handlers {
	return &Handlers{
		matrixService:     matrixService,
		allocationService: allocationService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// respondOK writes a successful envelope
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// respondBadRequest writes a 400 envelope with msg
func (h *Handlers) respondBadRequest(c *gin.Context, msg string, err error) {
	h.logger.Error("Invalid request", "path", c.FullPath(), "message", msg, "error", err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// respondError maps service errors to status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}

	c.JSON(status, Response{
		Success: false,
		Error:   msg,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidCategory),
		errors.Is(err, entity.ErrInvalidRuleKind),
		errors.Is(err, entity.ErrInvalidAllocationKind),
		errors.Is(err, entity.ErrInvalidRule):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrRuleNotFound),
		errors.Is(err, entity.ErrLineItemNotFound),
		errors.Is(err, entity.ErrAllocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrAllocationIncomplete),
		errors.Is(err, entity.ErrLineItemFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// paramInt64 parses a path parameter, writing a 400 response on failure
func (h *Handlers) paramInt64(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondBadRequest(c, "invalid "+name, err)
		return 0, false
	}
	return v, true
}

// paramIndex parses a non-negative index path parameter
func (h *Handlers) paramIndex(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		h.respondBadRequest(c, "invalid "+name, err)
		return 0, false
	}
	return v, true
}
