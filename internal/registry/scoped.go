// Package registry persists which announcements a viewer has already been shown.
//
// Two registries exist with different lifetimes: one per browsing session and one
// per viewer that never expires. Both are the same ScopedIDSet over different stores.
package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
)

// Well-known keys. The owner id is appended so one store can hold many viewers.
const (
	SessionKey   = "announcements.seen.session"
	PermanentKey = "announcements.seen.permanent"
)

// Scope names the lifetime of a registry.
type Scope string

const (
	ScopeSession   Scope = "session"
	ScopePermanent Scope = "permanent"
)

// ScopedIDSet is a seen registry addressed by one fixed key in a KeyValueStore.
type ScopedIDSet struct {
	store  KeyValueStore
	key    string
	scope  Scope
	logger *zap.Logger
}

// NewSession returns the registry for one browsing session.
func NewSession(store KeyValueStore, sessionID string, logger *zap.Logger) *ScopedIDSet {
	return newScoped(store, SessionKey+":"+sessionID, ScopeSession, logger)
}

// NewPermanent returns the registry that outlives sessions for one viewer.
func NewPermanent(store KeyValueStore, viewerID string, logger *zap.Logger) *ScopedIDSet {
	return newScoped(store, PermanentKey+":"+viewerID, ScopePermanent, logger)
}

func newScoped(store KeyValueStore, key string, scope Scope, logger *zap.Logger) *ScopedIDSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScopedIDSet{store: store, key: key, scope: scope, logger: logger}
}

// Key returns the storage key.
func (r *ScopedIDSet) Key() string { return r.key }

// Scope returns the registry lifetime.
func (r *ScopedIDSet) Scope() Scope { return r.scope }

// Read returns the stored ids. It never fails: a missing, unreadable or corrupt
// value reads as an empty set so announcements are shown again rather than lost.
func (r *ScopedIDSet) Read(ctx context.Context) *IDSet {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.logger.Warn("seen registry read failed", zap.String("key", r.key), zap.String("scope", string(r.scope)), zap.Error(err))
		return NewIDSet()
	}
	if !found {
		return NewIDSet()
	}
	ids, err := Decode(raw)
	if err != nil {
		r.logger.Warn("seen registry corrupt, treating as empty", zap.String("key", r.key), zap.String("scope", string(r.scope)), zap.Error(err))
		return NewIDSet()
	}
	return ids
}

// Write replaces the stored ids.
func (r *ScopedIDSet) Write(ctx context.Context, ids *IDSet) error {
	raw, err := Encode(ids)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRegistryWrite.Code, appErrors.ErrRegistryWrite.Status, fmt.Sprintf("write %s registry %s", r.scope, r.key))
	}
	return nil
}

// Encode serializes ids as a JSON array in insertion order.
func Encode(ids *IDSet) (string, error) {
	payload, err := json.Marshal(ids.IDs())
	if err != nil {
		return "", fmt.Errorf("encode seen ids: %w", err)
	}
	return string(payload), nil
}

// Decode parses a JSON array of ids. Duplicates collapse; null decodes as empty.
func Decode(raw string) (*IDSet, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode seen ids: %w", err)
	}
	return NewIDSet(ids...), nil
}
