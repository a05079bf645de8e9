package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"designer-dashboard-backend/internal/parse"
)

// GetDesigners handles the GET /api/designers request.
func (h *Handler) GetDesigners(c *gin.Context) {
	if err := h.designers.Load(c.Request.Context()); err != nil {
		h.internalError(c, "Failed to retrieve designers", err)
		return
	}
	c.JSON(http.StatusOK, h.designers.Designers())
}

// CreateDesigner handles the POST /api/designers request.
func (h *Handler) CreateDesigner(c *gin.Context) {
	var req parse.DesignerInput
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.Validate()
	if err != nil {
		validationFailed(c, err)
		return
	}

	d, err := h.designers.Add(c.Request.Context(), in)
	if err != nil {
		h.internalError(c, "Failed to create designer", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// DeleteDesigner handles the DELETE /api/designers/:id request. Objects
// attached to the designer keep their reference.
func (h *Handler) DeleteDesigner(c *gin.Context) {
	if err := h.designers.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.internalError(c, "Failed to delete designer", err)
		return
	}
	c.Status(http.StatusNoContent)
}
