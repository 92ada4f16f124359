package contracts

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /contracts/:id/versions
func (h *Handler) ListVersions(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	out, err := h.engine.ListVersions(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": out})
}

// POST /contracts/:id/versions
func (h *Handler) CreateVersion(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.CreateVersion(c.Request.Context(), c.Param("id"), caller, req.FileURL, req.ChangeReason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /contracts/:id/versions/:versionId/approval
func (h *Handler) ApproveVersion(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.ApproveVersion(c.Request.Context(), c.Param("id"), c.Param("versionId"), caller, *req.Approve)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
