package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gstr1/docs"
	"gstr1/internal/handler"
	"gstr1/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger logrus.FieldLogger,
	corsOrigins []string,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	reports := v1.Group("/gstr1/reports")
	reports.POST("", reportH.Generate)
	reports.POST("/bundle", reportH.Bundle)

	return r
}
