package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/parse"
	"designer-dashboard-backend/internal/reactive"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	designers *reactive.DesignerStore
	objects   *reactive.ObjectStore
	log       *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(designers *reactive.DesignerStore, objects *reactive.ObjectStore, log *zap.Logger) *Handler {
	return &Handler{
		designers: designers,
		objects:   objects,
		log:       logging.OrNop(log),
	}
}

// Health reports that the process is serving requests.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes the request body into v, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// validationFailed answers 400 with per-field messages when err is a
// validation error.
func validationFailed(c *gin.Context, err error) bool {
	var errs parse.Errors
	if !errors.As(err, &errs) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs.Map()})
	return true
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// reloadDesigners refreshes attached object counts after an object change.
// A failure here does not fail the request that caused it.
func (h *Handler) reloadDesigners(c *gin.Context) {
	if err := h.designers.Load(c.Request.Context()); err != nil {
		h.log.Warn("failed to reload designers", zap.Error(err))
	}
}
