package contracts

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /contracts/:id/chat
func (h *Handler) ListChatMessages(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	out, err := h.engine.ListChatMessages(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// POST /contracts/:id/chat
func (h *Handler) PostMessage(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.PostMessage(c.Request.Context(), c.Param("id"), caller, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
