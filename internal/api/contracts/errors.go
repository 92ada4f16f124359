package contracts

import (
	"errors"
	"net/http"

	"contracts-app/internal/domain/apperr"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.NotParty, apperr.RoleMismatch, apperr.SelfResponseForbidden:
		return http.StatusForbidden
	case apperr.InvalidInput, apperr.EmptyMessage, apperr.MissingReason:
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// fail maps an engine error onto the envelope. Anything without a kind is
// a server fault and its text stays in the logs.
func (h *Handler) fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		respondError(c, statusFor(ae.Kind), string(ae.Kind), ae.Msg)
		return
	}
	h.log.Error("request failed", "path", c.FullPath(), "error", err)
	respondError(c, http.StatusInternalServerError, "internal", "internal error")
}

func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, string(apperr.InvalidInput), err.Error())
}
