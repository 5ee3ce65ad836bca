package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-announcer/api/swagger"
	"github.com/noah-isme/sma-announcer/internal/handler"
	"github.com/noah-isme/sma-announcer/internal/registry"
	"github.com/noah-isme/sma-announcer/internal/repository"
	"github.com/noah-isme/sma-announcer/internal/service"
	"github.com/noah-isme/sma-announcer/pkg/cache"
	"github.com/noah-isme/sma-announcer/pkg/config"
	"github.com/noah-isme/sma-announcer/pkg/database"
	"github.com/noah-isme/sma-announcer/pkg/logger"
	"github.com/noah-isme/sma-announcer/pkg/markdown"
)

// @title Classroom Announcements API
// @version 1.0.0
// @description Delivers classroom announcements to viewers without repeating ones they have already seen.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey ViewerToken
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if err := repository.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to migrate schema", zap.Error(err))
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}

	var sessionStore registry.KeyValueStore
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, session registry kept in memory", zap.Error(err))
		sessionStore = registry.NewMemoryStore()
	} else {
		store := repository.NewSessionStore(redisClient, cfg.Session.TTL)
		defer store.Close() //nolint:errcheck
		sessionStore = store
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	announcementRepo := repository.NewAnnouncementRepository(db)

	deps := routerDeps{
		sessions: service.NewSessionService(repository.NewViewerRepository(db), validate, logr, service.SessionConfig{
			TokenSecret: cfg.ViewerToken.Secret,
			TokenExpiry: cfg.ViewerToken.Expiration,
			Issuer:      cfg.ViewerToken.Issuer,
		}),
		delivery: service.NewDeliveryService(
			announcementRepo,
			sessionStore,
			repository.NewViewerStorageRepository(db),
			metricsSvc,
			markdown.Render,
			logr,
			service.DeliveryConfig{SessionTTL: cfg.Session.TTL},
		),
		announcements: service.NewAnnouncementService(announcementRepo, validate, logr),
		metrics:       metricsSvc,
		checks:        checks,
	}

	r := newRouter(cfg, logr, deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
