package routes

import (
	contractsapi "contracts-app/internal/api/contracts"
	"contracts-app/internal/app/http/middleware"
	"contracts-app/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Log          *logger.Logger
	Contracts    *contractsapi.Handler
	ServiceToken string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	h := d.Contracts

	// Called by the negotiation subsystem and event consumers, not by browsers.
	internal := r.Group("/internal")
	internal.Use(middleware.RequireServiceToken(d.ServiceToken))
	internal.POST("/contracts", middleware.SanitizeAndCleanInputMiddleware(), h.CreateContract)
	internal.GET("/events", h.Feed)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.Log))
	auth.GET("/contracts", h.ListContracts)

	// Parties of one contract
	ct := auth.Group("/contracts/:id")
	ct.Use(middleware.ResolveParty(d.DB, d.Log), middleware.SanitizeAndCleanInputMiddleware())

	ct.GET("", h.GetContract)
	ct.GET("/overview", h.GetOverview)
	ct.GET("/events", h.ListEvents)
	ct.POST("/thread", h.AppendThreadEntry)

	ct.POST("/unsigned-link", h.UploadUnsignedLink)
	ct.POST("/unsigned-download", h.DownloadUnsigned)
	ct.POST("/signed-link", h.UploadSignedLink)
	ct.POST("/signed-download", h.DownloadSigned)

	ct.POST("/status-request", h.RequestStatusChange)
	ct.POST("/status-request/respond", h.RespondToStatusChange)

	ct.GET("/deliverables", h.ListDeliverables)
	ct.PUT("/deliverables", h.ReplaceDeliverables)
	ct.POST("/deliverables/approval", h.ApproveDeliverables)
	ct.POST("/deliverables/:deliverableId/submission", h.SubmitDeliverable)
	ct.POST("/deliverables/:deliverableId/review", h.ReviewDeliverable)

	ct.GET("/versions", h.ListVersions)
	ct.POST("/versions", h.CreateVersion)
	ct.POST("/versions/:versionId/approval", h.ApproveVersion)

	ct.GET("/chat", h.ListChatMessages)
	ct.POST("/chat", h.PostMessage)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Log), middleware.RequireRole("admin"))
	admin.GET("/events", h.Feed)
}
