package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
)

func ann(id string, mode models.DisplayMode) models.Announcement {
	return models.Announcement{ID: id, Title: "title " + id, Content: "content " + id, DisplayMode: mode, Enabled: true}
}

func ids(items []models.Announcement) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestSelectBothRegistriesEmpty(t *testing.T) {
	active := []models.Announcement{ann("a1", models.DisplayModeOnce), ann("a2", models.DisplayModeAlways)}
	got := Select(active, registry.NewIDSet(), registry.NewIDSet())
	assert.Equal(t, []string{"a1", "a2"}, ids(got))
}

func TestSelectOnceUsesPermanentRegistryOnly(t *testing.T) {
	active := []models.Announcement{ann("a1", models.DisplayModeOnce)}

	// present in the session registry only: still shown
	assert.Equal(t, []string{"a1"}, ids(Select(active, registry.NewIDSet("a1"), registry.NewIDSet())))
	// present in the permanent registry: hidden whatever the session holds
	assert.Empty(t, Select(active, registry.NewIDSet(), registry.NewIDSet("a1")))
	assert.Empty(t, Select(active, registry.NewIDSet("a1"), registry.NewIDSet("a1")))
}

func TestSelectAlwaysUsesSessionRegistryOnly(t *testing.T) {
	active := []models.Announcement{ann("a2", models.DisplayModeAlways)}

	assert.Equal(t, []string{"a2"}, ids(Select(active, registry.NewIDSet(), registry.NewIDSet("a2"))))
	assert.Empty(t, Select(active, registry.NewIDSet("a2"), registry.NewIDSet()))
}

func TestSelectMissingModeBehavesAsAlways(t *testing.T) {
	active := []models.Announcement{ann("a3", ""), ann("a4", "weekly")}
	assert.Empty(t, Select(active, registry.NewIDSet("a3", "a4"), registry.NewIDSet()))
	assert.Equal(t, []string{"a3", "a4"}, ids(Select(active, registry.NewIDSet(), registry.NewIDSet("a3", "a4"))))
}

func TestSelectPreservesSourceOrder(t *testing.T) {
	active := []models.Announcement{
		ann("z", models.DisplayModeAlways),
		ann("m", models.DisplayModeOnce),
		ann("a", models.DisplayModeAlways),
		ann("q", models.DisplayModeOnce),
		ann("b", models.DisplayModeAlways),
	}
	active[0].Type = models.AnnouncementTypeSuccess
	active[2].Type = models.AnnouncementTypeImportant

	got := Select(active, registry.NewIDSet("a"), registry.NewIDSet("q"))
	assert.Equal(t, []string{"z", "m", "b"}, ids(got))
}

func TestSelectEmptyActive(t *testing.T) {
	assert.Empty(t, Select(nil, registry.NewIDSet(), registry.NewIDSet()))
}

func TestPartition(t *testing.T) {
	toShow := []models.Announcement{
		ann("a1", models.DisplayModeOnce),
		ann("a2", models.DisplayModeAlways),
		ann("a3", ""),
		ann("a4", models.DisplayModeOnce),
	}
	session, permanent := Partition(toShow)
	assert.Equal(t, []string{"a2", "a3"}, session)
	assert.Equal(t, []string{"a1", "a4"}, permanent)
}
