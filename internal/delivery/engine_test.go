package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
)

type sourceMock struct {
	mu        sync.Mutex
	byClass   map[string][]models.Announcement
	err       error
	calls     int
	lastClass string
}

func (m *sourceMock) ListActive(ctx context.Context, classroomID string) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastClass = classroomID
	if m.err != nil {
		return nil, m.err
	}
	return m.byClass[classroomID], nil
}

type observerMock struct {
	outcomes      []string
	shown         int
	writeFailures []string
}

func (o *observerMock) ObserveDeliveryCycle(outcome string, shown int) {
	o.outcomes = append(o.outcomes, outcome)
	o.shown += shown
}

func (o *observerMock) RecordRegistryWriteFailure(scope string) {
	o.writeFailures = append(o.writeFailures, scope)
}

type storeMock struct {
	*registry.MemoryStore
	setErr error
	sets   int
}

func (s *storeMock) Set(ctx context.Context, key, value string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, key, value)
}

type fixture struct {
	source    *sourceMock
	store     *storeMock
	session   *registry.ScopedIDSet
	permanent *registry.ScopedIDSet
	observer  *observerMock
	engine    *Engine
}

func newFixture(active map[string][]models.Announcement) *fixture {
	f := &fixture{
		source:   &sourceMock{byClass: active},
		store:    &storeMock{MemoryStore: registry.NewMemoryStore()},
		observer: &observerMock{},
	}
	f.session = registry.NewSession(f.store, "sess-1", nil)
	f.permanent = registry.NewPermanent(f.store, "viewer-1", nil)
	f.engine = NewEngine(f.source, f.session, f.permanent, f.observer, nil)
	return f
}

func (f *fixture) seen(t *testing.T) (session, permanent []string) {
	t.Helper()
	ctx := context.Background()
	return f.session.Read(ctx).IDs(), f.permanent.Read(ctx).IDs()
}

func mixedModeActive() []models.Announcement {
	return []models.Announcement{ann("a1", models.DisplayModeOnce), ann("a2", models.DisplayModeAlways)}
}

func TestEnterWithEmptyRegistriesShowsAllInOrder(t *testing.T) {
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})

	f.engine.Enter(context.Background(), "class-1")

	p := f.engine.Presenter()
	require.Equal(t, StateShowing, p.State())
	assert.Equal(t, "a1", p.View().ID)
	assert.Equal(t, 2, p.View().Total)

	session, permanent := f.seen(t)
	assert.Equal(t, []string{"a2"}, session)
	assert.Equal(t, []string{"a1"}, permanent)
	assert.Equal(t, []string{string(OutcomeShown)}, f.observer.outcomes)
	assert.Equal(t, 2, f.observer.shown)
}

func TestEnterSkipsOnceAlreadySeen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})
	require.NoError(t, f.permanent.Write(ctx, registry.NewIDSet("a1")))

	f.engine.Enter(ctx, "class-1")

	v := f.engine.Presenter().View()
	assert.Equal(t, "a2", v.ID)
	assert.Zero(t, v.Total)
	session, permanent := f.seen(t)
	assert.Equal(t, []string{"a2"}, session)
	assert.Equal(t, []string{"a1"}, permanent)
}

func TestEnterWithNothingActive(t *testing.T) {
	f := newFixture(map[string][]models.Announcement{})

	f.engine.Enter(context.Background(), "class-1")

	assert.Equal(t, StateIdle, f.engine.Presenter().State())
	assert.Zero(t, f.store.sets)
	assert.Equal(t, []string{string(OutcomeNothingNew)}, f.observer.outcomes)
}

func TestAdvanceToEndThenRefetchShowsNothing(t *testing.T) {
	ctx := context.Background()
	active := []models.Announcement{
		ann("a1", models.DisplayModeOnce),
		ann("a2", models.DisplayModeAlways),
		ann("a3", models.DisplayModeAlways),
	}
	f := newFixture(map[string][]models.Announcement{"class-1": active})

	f.engine.Enter(ctx, "class-1")
	p := f.engine.Presenter()
	p.Next()
	p.Next()
	require.Equal(t, 2, p.Cursor())
	p.Next()
	assert.Equal(t, StateIdle, p.State())

	writes := f.store.sets
	f.engine.Enter(ctx, "class-1")
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, writes, f.store.sets)
}

func TestDismissEarlyStillMarksAll(t *testing.T) {
	ctx := context.Background()
	active := []models.Announcement{
		ann("a1", models.DisplayModeAlways),
		ann("a2", models.DisplayModeOnce),
		ann("a3", models.DisplayModeAlways),
	}
	f := newFixture(map[string][]models.Announcement{"class-1": active})

	f.engine.Enter(ctx, "class-1")
	p := f.engine.Presenter()
	require.Equal(t, 0, p.Cursor())
	p.Dismiss()
	assert.Equal(t, StateIdle, p.State())

	session, permanent := f.seen(t)
	assert.Equal(t, []string{"a1", "a3"}, session)
	assert.Equal(t, []string{"a2"}, permanent)

	f.engine.Enter(ctx, "class-1")
	assert.Equal(t, StateIdle, p.State())
}

func TestAlwaysModeIdempotentWithinSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": {ann("a2", models.DisplayModeAlways)}})

	for i := 0; i < 3; i++ {
		f.engine.Enter(ctx, "class-1")
		f.engine.Presenter().Dismiss()
	}
	session, _ := f.seen(t)
	assert.Equal(t, []string{"a2"}, session)
	assert.Equal(t, []string{string(OutcomeShown), string(OutcomeNothingNew), string(OutcomeNothingNew)}, f.observer.outcomes)
}

func TestAlwaysModeReturnsInNewSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})
	f.engine.Enter(ctx, "class-1")

	nextSession := registry.NewSession(f.store, "sess-2", nil)
	engine := NewEngine(f.source, nextSession, f.permanent, nil, nil)
	engine.Enter(ctx, "class-1")

	v := engine.Presenter().View()
	assert.True(t, v.Open)
	assert.Equal(t, "a2", v.ID)
	assert.Zero(t, v.Total)
}

func TestOnceModePermanentAcrossSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": {ann("a1", models.DisplayModeOnce)}})
	f.engine.Enter(ctx, "class-1")

	for _, sessionID := range []string{"sess-2", "sess-3", "sess-4"} {
		engine := NewEngine(f.source, registry.NewSession(f.store, sessionID, nil), f.permanent, nil, nil)
		engine.Enter(ctx, "class-1")
		assert.Equal(t, StateIdle, engine.Presenter().State(), sessionID)
	}
}

func TestCorruptRegistryReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})
	require.NoError(t, f.store.MemoryStore.Set(ctx, f.permanent.Key(), "{{corrupt"))
	require.NoError(t, f.store.MemoryStore.Set(ctx, f.session.Key(), "42"))

	assert.NotPanics(t, func() { f.engine.Enter(ctx, "class-1") })

	assert.Equal(t, 2, f.engine.Presenter().View().Total)
	session, permanent := f.seen(t)
	assert.Equal(t, []string{"a2"}, session)
	assert.Equal(t, []string{"a1"}, permanent)
}

func TestFetchFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(nil)
	f.source.err = errors.New("backend unavailable")
	f.engine = NewEngine(f.source, f.session, f.permanent, f.observer, zap.New(core))

	f.engine.Enter(ctx, "class-1")

	assert.Equal(t, StateIdle, f.engine.Presenter().State())
	assert.Zero(t, f.store.sets)
	assert.Equal(t, 1, f.source.calls)
	assert.Equal(t, []string{string(OutcomeFetchFailed)}, f.observer.outcomes)
	assert.Equal(t, 1, logs.FilterMessage("fetch active announcements failed").Len())
}

func TestFetchFailureKeepsCurrentPresentation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})
	f.engine.Enter(ctx, "class-1")

	f.source.err = errors.New("timeout")
	f.engine.Enter(ctx, "class-2")

	assert.Equal(t, "a1", f.engine.Presenter().View().ID)
}

func TestWriteFailureStillPresents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{"class-1": mixedModeActive()})
	f.store.setErr = errors.New("disk full")

	f.engine.Enter(ctx, "class-1")

	assert.Equal(t, StateShowing, f.engine.Presenter().State())
	assert.Equal(t, 2, f.engine.Presenter().View().Total)
	assert.ElementsMatch(t, []string{"session", "permanent"}, f.observer.writeFailures)

	// nothing was committed, so the batch comes back next time
	f.store.setErr = nil
	f.engine.Presenter().Dismiss()
	f.engine.Enter(ctx, "class-1")
	assert.Equal(t, 2, f.engine.Presenter().View().Total)
}

func TestOnlyTouchedRegistriesAreWritten(t *testing.T) {
	f := newFixture(map[string][]models.Announcement{"class-1": {ann("a2", models.DisplayModeAlways)}})

	f.engine.Enter(context.Background(), "class-1")

	assert.Equal(t, 1, f.store.sets)
	_, found, _ := f.store.Get(context.Background(), f.permanent.Key())
	assert.False(t, found)
}

func TestRegistriesAreAppendOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{
		"class-1": {ann("a1", models.DisplayModeAlways)},
		"class-2": {ann("b1", models.DisplayModeAlways)},
	})

	f.engine.Enter(ctx, "class-1")
	f.engine.Enter(ctx, "class-2")

	session, _ := f.seen(t)
	assert.Equal(t, []string{"a1", "b1"}, session)
}

func TestClassroomChangeSupersedesPresentation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]models.Announcement{
		"class-1": {ann("a1", models.DisplayModeAlways), ann("a2", models.DisplayModeAlways)},
		"class-2": {ann("b1", models.DisplayModeOnce)},
	})

	f.engine.Enter(ctx, "class-1")
	f.engine.Presenter().Next()
	f.engine.Enter(ctx, "class-2")

	v := f.engine.Presenter().View()
	assert.Equal(t, "b1", v.ID)
	assert.Zero(t, v.Total)
	assert.Equal(t, "class-2", f.source.lastClass)
}
