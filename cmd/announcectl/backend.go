package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-announcer/internal/delivery"
	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
	"github.com/noah-isme/sma-announcer/internal/repository"
	"github.com/noah-isme/sma-announcer/pkg/cache"
	"github.com/noah-isme/sma-announcer/pkg/config"
	"github.com/noah-isme/sma-announcer/pkg/database"
	"github.com/noah-isme/sma-announcer/pkg/logger"
)

// backend opens the database and Redis lazily so --help works without either.
type backend struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client
}

func newBackend() *backend {
	return &backend{}
}

func (b *backend) open(ctx context.Context) error {
	if b.db != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}

	b.cfg, b.logger, b.db = cfg, logr, db
	if client, err := cache.NewRedis(ctx, cfg.Redis); err == nil {
		b.redis = client
	} else {
		logr.Debug("redis unavailable, session registries read as empty", zap.Error(err))
	}
	return nil
}

func (b *backend) Migrate(ctx context.Context) error {
	if err := b.open(ctx); err != nil {
		return err
	}
	return repository.Migrate(ctx, b.db)
}

func (b *backend) Preview(ctx context.Context, req PreviewRequest) ([]models.Announcement, error) {
	if err := b.open(ctx); err != nil {
		return nil, err
	}

	active, err := repository.NewAnnouncementRepository(b.db).ListActive(ctx, req.ClassroomID)
	if err != nil {
		return nil, err
	}

	var sessionStore registry.KeyValueStore = registry.NewMemoryStore()
	if b.redis != nil && req.SessionID != "" {
		sessionStore = repository.NewSessionStore(b.redis, b.cfg.Session.TTL)
	}
	sessionSeen := registry.NewSession(sessionStore, req.SessionID, b.logger).Read(ctx)
	permanentSeen := registry.NewPermanent(repository.NewViewerStorageRepository(b.db), req.ViewerID, b.logger).Read(ctx)

	return delivery.Select(active, sessionSeen, permanentSeen), nil
}

func (b *backend) CreateViewer(ctx context.Context, viewer *models.Viewer) error {
	if err := b.open(ctx); err != nil {
		return err
	}
	return repository.NewViewerRepository(b.db).Create(ctx, viewer)
}

func (b *backend) Close() error {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.logger != nil {
		_ = b.logger.Sync()
	}
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
