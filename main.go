package main

import (
	"context"
	"time"

	"contracts-app/config"
	"contracts-app/database"
	contractsapi "contracts-app/internal/api/contracts"
	routes "contracts-app/internal/app/http"
	"contracts-app/internal/app/http/middleware"
	"contracts-app/internal/engine"
	"contracts-app/internal/observability"
	"contracts-app/internal/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "contracts-app"

func main() {
	config.LoadEnv()
	gin.SetMode(config.GIN_MODE)

	log, err := logger.New(config.LOG_MODE)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	shutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: config.LOG_MODE,
		Enabled:     config.OTEL_ENABLED,
		Endpoint:    config.OTEL_EXPORTER_OTLP_ENDPOINT,
		Insecure:    config.OTEL_EXPORTER_OTLP_INSECURE,
		SampleRatio: config.OTEL_SAMPLER_RATIO,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	database.InitDB(log)
	eng := engine.New(database.DB, log)

	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(serviceName), middleware.RequestLogger(log))

	// CORS before routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:           database.DB,
		Log:          log,
		Contracts:    contractsapi.NewHandler(eng, log),
		ServiceToken: config.INTERNAL_API_TOKEN,
	})

	if err := r.Run(":" + config.PORT); err != nil {
		log.Error("server stopped", "error", err)
	}
}
