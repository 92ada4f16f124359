// Package contracts is the HTTP surface of the contract engine.
package contracts

import (
	"net/http"
	"strconv"

	domain "contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/party"
	"contracts-app/internal/engine"
	"contracts-app/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *engine.Engine
	log    *logger.Logger
}

func NewHandler(e *engine.Engine, log *logger.Logger) *Handler {
	return &Handler{engine: e, log: log.With("component", "ContractsAPI")}
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return 0, false
	}
	return userID, true
}

// mustCaller reads the identity the auth and party middleware resolved.
func mustCaller(c *gin.Context) (engine.Caller, bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return engine.Caller{}, false
	}
	role, ok := party.ParseRole(c.GetString("party_role"))
	if !ok {
		respondError(c, http.StatusForbidden, "not_party", "You are not a party to this contract")
		return engine.Caller{}, false
	}
	return engine.Caller{UserID: userID, Role: role}, true
}

// ------------------------------
// POST /internal/contracts
// ------------------------------
func (h *Handler) CreateContract(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.CreateContract(c.Request.Context(), domain.NewContract{
		ProposalID:     req.ProposalID,
		BrandID:        req.BrandID,
		CreatorID:      req.CreatorID,
		Terms:          req.Terms,
		InitialMessage: req.InitialMessage,
		InitialSender:  party.Role(req.InitialSender),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContractDTO(out))
}

// ------------------------------
// GET /contracts?role=brand|creator
// ------------------------------
func (h *Handler) ListContracts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	out, err := h.engine.ListContracts(c.Request.Context(), userID, party.Role(c.Query("role")))
	if err != nil {
		h.fail(c, err)
		return
	}
	dtos := make([]ContractDTO, 0, len(out))
	for i := range out {
		dtos = append(dtos, toContractDTO(&out[i]))
	}
	c.JSON(http.StatusOK, gin.H{"contracts": dtos})
}

func (h *Handler) GetContract(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	out, err := h.engine.GetContract(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractDTO(out))
}

func (h *Handler) GetOverview(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	out, err := h.engine.Overview(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOverviewDTO(out))
}

// ------------------------------
// POST /contracts/:id/thread
// ------------------------------
func (h *Handler) AppendThreadEntry(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req ThreadEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.engine.AppendThreadEntry(c.Request.Context(), c.Param("id"), caller,
		domain.EntryType(req.Type), req.Message, req.Metadata)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ------------------------------
// events: GET /contracts/:id/events, GET /internal/events
// ------------------------------

func pageParams(c *gin.Context) (after uint64, limit int, ok bool) {
	var err error
	if s := c.Query("after"); s != "" {
		if after, err = strconv.ParseUint(s, 10, 64); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_input", "after must be a sequence number")
			return 0, 0, false
		}
	}
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_input", "limit must be a number")
			return 0, 0, false
		}
	}
	return after, limit, true
}

func (h *Handler) ListEvents(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	after, limit, ok := pageParams(c)
	if !ok {
		return
	}
	out, err := h.engine.ListEvents(c.Request.Context(), c.Param("id"), caller, after, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (h *Handler) Feed(c *gin.Context) {
	after, limit, ok := pageParams(c)
	if !ok {
		return
	}
	out, err := h.engine.Feed(c.Request.Context(), after, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}
