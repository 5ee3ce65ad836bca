package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-announcer/internal/delivery"
	"github.com/noah-isme/sma-announcer/internal/dto"
	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
)

// ContentRenderer turns announcement content into an HTML fragment.
type ContentRenderer func(content string) (string, error)

// DeliveryConfig tunes the delivery service.
type DeliveryConfig struct {
	// SessionTTL evicts engines of sessions idle for longer than this.
	SessionTTL time.Duration
}

type sessionEngine struct {
	engine   *delivery.Engine
	viewerID string
	lastSeen time.Time
}

// DeliveryService keeps one delivery engine per viewer session.
type DeliveryService struct {
	source         delivery.Source
	sessionStore   registry.KeyValueStore
	permanentStore registry.KeyValueStore
	metrics        *MetricsService
	render         ContentRenderer
	logger         *zap.Logger
	ttl            time.Duration
	now            func() time.Time

	mu        sync.Mutex
	engines   map[string]*sessionEngine
	lastSweep time.Time
}

const maxSweepInterval = time.Minute

// NewDeliveryService wires the announcement source with the session and permanent stores.
func NewDeliveryService(source delivery.Source, sessionStore, permanentStore registry.KeyValueStore, metrics *MetricsService, render ContentRenderer, logger *zap.Logger, cfg DeliveryConfig) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	return &DeliveryService{
		source:         source,
		sessionStore:   sessionStore,
		permanentStore: permanentStore,
		metrics:        metrics,
		render:         render,
		logger:         logger,
		ttl:            cfg.SessionTTL,
		now:            time.Now,
		engines:        make(map[string]*sessionEngine),
	}
}

// Enter runs a delivery cycle for the viewer entering classroomID and returns
// what the surface should show. Failures never reach the caller.
func (s *DeliveryService) Enter(ctx context.Context, viewer *models.ViewerClaims, classroomID string) dto.PresentationView {
	engine := s.engineFor(viewer)
	engine.Enter(ctx, classroomID)
	return s.view(engine.Presenter().View())
}

// Current returns the surface without changing it.
func (s *DeliveryService) Current(viewer *models.ViewerClaims) dto.PresentationView {
	return s.view(s.engineFor(viewer).Presenter().View())
}

// Next acknowledges the current announcement.
func (s *DeliveryService) Next(viewer *models.ViewerClaims) dto.PresentationView {
	p := s.engineFor(viewer).Presenter()
	p.Next()
	return s.view(p.View())
}

// Dismiss closes the surface.
func (s *DeliveryService) Dismiss(viewer *models.ViewerClaims) dto.PresentationView {
	p := s.engineFor(viewer).Presenter()
	p.Dismiss()
	return s.view(p.View())
}

// ActiveSessions returns the number of sessions holding an engine.
func (s *DeliveryService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}

func (s *DeliveryService) engineFor(viewer *models.ViewerClaims) *delivery.Engine {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)

	entry, ok := s.engines[viewer.SessionID]
	if !ok || entry.viewerID != viewer.ViewerID || now.Sub(entry.lastSeen) > s.ttl {
		logger := s.logger.With(zap.String("viewer_id", viewer.ViewerID), zap.String("session_id", viewer.SessionID))
		engine := delivery.NewEngine(
			s.source,
			registry.NewSession(s.sessionStore, viewer.SessionID, logger),
			registry.NewPermanent(s.permanentStore, viewer.ViewerID, logger),
			s.metrics,
			logger,
		)
		entry = &sessionEngine{engine: engine, viewerID: viewer.ViewerID}
		s.engines[viewer.SessionID] = entry
	}
	entry.lastSeen = now
	s.metrics.SetActiveSessions(len(s.engines))
	return entry.engine
}

// sweep drops idle engines, at most once per sweep interval. Callers hold s.mu.
func (s *DeliveryService) sweep(now time.Time) {
	interval := s.ttl
	if interval > maxSweepInterval {
		interval = maxSweepInterval
	}
	if now.Sub(s.lastSweep) < interval {
		return
	}
	s.lastSweep = now
	for id, entry := range s.engines {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.engines, id)
		}
	}
}

func (s *DeliveryService) view(v delivery.View) dto.PresentationView {
	out := dto.PresentationView{
		Open:     v.Open,
		ID:       v.ID,
		Type:     v.Type,
		Title:    v.Title,
		Content:  v.Content,
		Position: v.Position,
		Total:    v.Total,
	}
	if v.Open && s.render != nil {
		html, err := s.render(v.Content)
		if err != nil {
			s.logger.Warn("render announcement content failed", zap.String("announcement_id", v.ID), zap.Error(err))
		} else {
			out.ContentHTML = html
		}
	}
	return out
}
