package contracts

import (
	"context"
	"net/http"

	domain "contracts-app/internal/domain/contracts"
	"contracts-app/internal/engine"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// document handoff
// ------------------------------

type linkStep func(ctx context.Context, contractID string, caller engine.Caller, link string) (*domain.Contract, error)
type markStep func(ctx context.Context, contractID string, caller engine.Caller) (*domain.Contract, error)

func (h *Handler) uploadLink(step linkStep) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := mustCaller(c)
		if !ok {
			return
		}
		var req LinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := step(c.Request.Context(), c.Param("id"), caller, req.Link)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, toContractDTO(out))
	}
}

func (h *Handler) markDownloaded(step markStep) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := mustCaller(c)
		if !ok {
			return
		}
		out, err := step(c.Request.Context(), c.Param("id"), caller)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, toContractDTO(out))
	}
}

// POST /contracts/:id/unsigned-link
func (h *Handler) UploadUnsignedLink(c *gin.Context) { h.uploadLink(h.engine.UploadUnsignedLink)(c) }

// POST /contracts/:id/unsigned-download
func (h *Handler) DownloadUnsigned(c *gin.Context) { h.markDownloaded(h.engine.DownloadUnsigned)(c) }

// POST /contracts/:id/signed-link
func (h *Handler) UploadSignedLink(c *gin.Context) { h.uploadLink(h.engine.UploadSignedLink)(c) }

// POST /contracts/:id/signed-download
func (h *Handler) DownloadSigned(c *gin.Context) { h.markDownloaded(h.engine.DownloadSigned)(c) }

// ------------------------------
// status changes
// ------------------------------

// POST /contracts/:id/status-request
func (h *Handler) RequestStatusChange(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.RequestStatusChange(c.Request.Context(), c.Param("id"), caller, domain.Status(req.RequestedStatus))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractDTO(out))
}

// POST /contracts/:id/status-request/respond
func (h *Handler) RespondToStatusChange(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.RespondToStatusChange(c.Request.Context(), c.Param("id"), caller, *req.Approve)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractDTO(out))
}
