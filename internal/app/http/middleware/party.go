package middleware

import (
	"errors"
	"net/http"

	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolveParty turns the authenticated user into a party of the contract
// named by :id and stores the role as party_role. Users who are neither
// the brand nor the creator are turned away.
func ResolveParty(db *gorm.DB, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			abort(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			abort(c, http.StatusNotFound, "not_found", "Contract not found")
			return
		}

		var ct contracts.Contract
		err := db.WithContext(c.Request.Context()).
			Select("id", "brand_id", "creator_id").
			Where("id = ?", id).
			Take(&ct).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abort(c, http.StatusNotFound, "not_found", "Contract not found")
			return
		}
		if err != nil {
			log.Error("resolve party", "contract_id", id, "error", err)
			abort(c, http.StatusInternalServerError, "internal", "Failed to load contract")
			return
		}

		role, ok := ct.RoleOf(userID)
		if !ok {
			abort(c, http.StatusForbidden, "not_party", "You are not a party to this contract")
			return
		}
		c.Set("party_role", string(role))
		c.Next()
	}
}
