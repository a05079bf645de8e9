package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"designer-dashboard-backend/internal/dal"
	"designer-dashboard-backend/internal/parse"
)

// GetObjects handles the GET /api/objects request.
func (h *Handler) GetObjects(c *gin.Context) {
	if err := h.objects.Load(c.Request.Context()); err != nil {
		h.internalError(c, "Failed to retrieve objects", err)
		return
	}
	c.JSON(http.StatusOK, h.objects.Objects())
}

// CreateObject handles the POST /api/objects request.
func (h *Handler) CreateObject(c *gin.Context) {
	var req parse.ObjectInput
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.Validate()
	if err != nil {
		validationFailed(c, err)
		return
	}

	o, err := h.objects.Add(c.Request.Context(), in)
	if err != nil {
		h.internalError(c, "Failed to create object", err)
		return
	}
	h.reloadDesigners(c)
	c.JSON(http.StatusCreated, o)
}

// UpdateObject handles the PATCH /api/objects/:id request. Only the fields
// present in the body change.
func (h *Handler) UpdateObject(c *gin.Context) {
	var req parse.PatchInput
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.Validate()
	if err != nil {
		validationFailed(c, err)
		return
	}

	id := c.Param("id")
	prev, cached := h.objects.Find(id)
	o, err := h.objects.Update(c.Request.Context(), id, patch)
	if errors.Is(err, dal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to update object", err)
		return
	}

	if patch.DesignerID != nil && (!cached || patch.Reassigns(prev)) {
		h.reloadDesigners(c)
	}
	c.JSON(http.StatusOK, o)
}

// DeleteObject handles the DELETE /api/objects/:id request.
func (h *Handler) DeleteObject(c *gin.Context) {
	if err := h.objects.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.internalError(c, "Failed to delete object", err)
		return
	}
	h.reloadDesigners(c)
	c.Status(http.StatusNoContent)
}
