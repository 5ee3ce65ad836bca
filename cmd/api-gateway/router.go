package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-announcer/internal/handler"
	"github.com/noah-isme/sma-announcer/internal/middleware"
	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/service"
	"github.com/noah-isme/sma-announcer/pkg/config"
	"github.com/noah-isme/sma-announcer/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-announcer/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-announcer/pkg/middleware/requestid"
)

type routerDeps struct {
	sessions      *service.SessionService
	delivery      *service.DeliveryService
	announcements *service.AnnouncementService
	metrics       *service.MetricsService
	checks        map[string]handler.ReadinessCheck
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	sessionHandler := handler.NewSessionHandler(deps.sessions)
	api.POST("/sessions", sessionHandler.Create)

	viewer := api.Group("")
	viewer.Use(middleware.ViewerToken(deps.sessions))

	deliveryHandler := handler.NewDeliveryHandler(deps.delivery)
	viewer.POST("/classrooms/:classId/announcements/enter", deliveryHandler.Enter)
	viewer.GET("/presentation", deliveryHandler.Current)
	viewer.POST("/presentation/next", deliveryHandler.Next)
	viewer.POST("/presentation/dismiss", deliveryHandler.Dismiss)

	if cfg.Announcements.AdminEnabled {
		announcementHandler := handler.NewAnnouncementHandler(deps.announcements)
		admin := viewer.Group("/announcements")
		admin.Use(middleware.RequireRoles(models.ViewerRoleAdmin))
		admin.GET("", announcementHandler.List)
		admin.POST("", announcementHandler.Create)
		admin.GET("/export", announcementHandler.Export)
		admin.GET("/:id", announcementHandler.Get)
		admin.PUT("/:id", announcementHandler.Update)
		admin.DELETE("/:id", announcementHandler.Delete)
	}

	return r
}
