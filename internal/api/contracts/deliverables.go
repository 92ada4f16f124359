package contracts

import (
	"net/http"

	"contracts-app/internal/engine"

	"github.com/gin-gonic/gin"
)

// GET /contracts/:id/deliverables
func (h *Handler) ListDeliverables(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	out, err := h.engine.ListDeliverables(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliverablesDTO(out))
}

// PUT /contracts/:id/deliverables
func (h *Handler) ReplaceDeliverables(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req ReplaceDeliverablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	items, err := req.items()
	if err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.CreateOrReplaceList(c.Request.Context(), c.Param("id"), caller, items)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliverablesDTO(out))
}

// POST /contracts/:id/deliverables/approval
func (h *Handler) ApproveDeliverables(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.ApproveList(c.Request.Context(), c.Param("id"), caller, *req.Approve)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeliverablesDTO(out))
}

// POST /contracts/:id/deliverables/:deliverableId/submission
func (h *Handler) SubmitDeliverable(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req SubmitDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.SubmitDeliverable(c.Request.Context(), c.Param("id"), c.Param("deliverableId"), caller, req.SubmissionURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /contracts/:id/deliverables/:deliverableId/review
func (h *Handler) ReviewDeliverable(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req ReviewDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.ReviewDeliverable(c.Request.Context(), c.Param("id"), c.Param("deliverableId"), caller, engine.Review{
		Approve:         *req.Approve,
		Comment:         req.Comment,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
