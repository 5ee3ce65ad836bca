// Package delivery decides which announcements a viewer sees on entering a classroom
// and drives the one-at-a-time presentation of them.
package delivery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
)

// Source returns the announcements active right now for a classroom.
type Source interface {
	ListActive(ctx context.Context, classroomID string) ([]models.Announcement, error)
}

// SeenRegistry is one persisted set of already-shown announcement ids.
type SeenRegistry interface {
	Read(ctx context.Context) *registry.IDSet
	Write(ctx context.Context, ids *registry.IDSet) error
	Scope() registry.Scope
}

// Outcome labels how a delivery cycle ended.
type Outcome string

const (
	OutcomeShown       Outcome = "shown"
	OutcomeNothingNew  Outcome = "nothing_new"
	OutcomeFetchFailed Outcome = "fetch_failed"
)

// Observer receives delivery events, typically for metrics.
type Observer interface {
	ObserveDeliveryCycle(outcome string, shown int)
	RecordRegistryWriteFailure(scope string)
}

// Engine runs delivery cycles for one viewer session.
type Engine struct {
	source    Source
	session   SeenRegistry
	permanent SeenRegistry
	presenter *Presenter
	observer  Observer
	logger    *zap.Logger

	// serializes read-select-write-open so cycles never interleave
	mu sync.Mutex
}

// NewEngine wires an engine to its source and the two seen registries.
func NewEngine(source Source, session, permanent SeenRegistry, observer Observer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:    source,
		session:   session,
		permanent: permanent,
		presenter: NewPresenter(),
		observer:  observer,
		logger:    logger,
	}
}

// Presenter exposes the presentation state machine driven by the viewer.
func (e *Engine) Presenter() *Presenter {
	return e.presenter
}

// Enter runs one delivery cycle for classroomID. Errors are logged, never returned:
// announcements must not block the page around them.
//
// The selected ids are recorded in their registries before anything is shown, so a
// viewer who dismisses early or reloads mid-queue does not get the same batch again.
func (e *Engine) Enter(ctx context.Context, classroomID string) {
	active, err := e.source.ListActive(ctx, classroomID)
	if err != nil {
		fetchErr := appErrors.Wrap(err, appErrors.ErrSourceFetch.Code, appErrors.ErrSourceFetch.Status, appErrors.ErrSourceFetch.Message)
		e.logger.Warn("fetch active announcements failed",
			zap.String("classroom_id", classroomID),
			zap.String("code", fetchErr.Code),
			zap.Error(fetchErr),
		)
		e.observe(OutcomeFetchFailed, 0)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sessionSeen := e.session.Read(ctx)
	permanentSeen := e.permanent.Read(ctx)

	toShow := Select(active, sessionSeen, permanentSeen)
	if len(toShow) == 0 {
		e.observe(OutcomeNothingNew, 0)
		return
	}

	sessionIDs, permanentIDs := Partition(toShow)
	e.record(ctx, e.session, sessionSeen, sessionIDs)
	e.record(ctx, e.permanent, permanentSeen, permanentIDs)

	e.presenter.Open(toShow)
	e.logger.Debug("announcements delivered",
		zap.String("classroom_id", classroomID),
		zap.Int("count", len(toShow)),
	)
	e.observe(OutcomeShown, len(toShow))
}

func (e *Engine) record(ctx context.Context, reg SeenRegistry, seen *registry.IDSet, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := reg.Write(ctx, seen.Union(ids...)); err != nil {
		e.logger.Warn("seen registry write failed",
			zap.String("scope", string(reg.Scope())),
			zap.String("code", appErrors.CodeOf(err)),
			zap.Strings("ids", ids),
			zap.Error(err),
		)
		if e.observer != nil {
			e.observer.RecordRegistryWriteFailure(string(reg.Scope()))
		}
	}
}

func (e *Engine) observe(outcome Outcome, shown int) {
	if e.observer != nil {
		e.observer.ObserveDeliveryCycle(string(outcome), shown)
	}
}
