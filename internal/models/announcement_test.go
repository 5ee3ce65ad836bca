package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTypeDefaultsToInfo(t *testing.T) {
	assert.Equal(t, AnnouncementTypeInfo, Announcement{}.EffectiveType())
	assert.Equal(t, AnnouncementTypeInfo, Announcement{Type: "urgent"}.EffectiveType())
	assert.Equal(t, AnnouncementTypeWarning, Announcement{Type: "WARNING"}.EffectiveType())
}

func TestShowOnce(t *testing.T) {
	assert.True(t, Announcement{DisplayMode: DisplayModeOnce}.ShowOnce())
	assert.False(t, Announcement{DisplayMode: "ONCE"}.ShowOnce())
	assert.False(t, Announcement{DisplayMode: "Once"}.ShowOnce())
	assert.False(t, Announcement{DisplayMode: " once"}.ShowOnce())
	assert.False(t, Announcement{DisplayMode: DisplayModeAlways}.ShowOnce())
	assert.False(t, Announcement{}.ShowOnce())
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	assert.True(t, Announcement{Enabled: true, StartsAt: now.Add(-time.Hour)}.ActiveAt(now))
	assert.True(t, Announcement{Enabled: true, StartsAt: now, EndsAt: &end}.ActiveAt(now))
	assert.False(t, Announcement{Enabled: false, StartsAt: now.Add(-time.Hour)}.ActiveAt(now))
	assert.False(t, Announcement{Enabled: true, StartsAt: now.Add(time.Minute)}.ActiveAt(now))
	assert.False(t, Announcement{Enabled: true, StartsAt: now.Add(-time.Hour), EndsAt: &past}.ActiveAt(now))
}
