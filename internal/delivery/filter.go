package delivery

import (
	"github.com/noah-isme/sma-announcer/internal/models"
	"github.com/noah-isme/sma-announcer/internal/registry"
)

// Select returns the announcements of active the viewer has not been shown yet,
// in the order the source returned them. Once-mode items are checked against the
// permanent registry, everything else against the session registry.
func Select(active []models.Announcement, sessionSeen, permanentSeen *registry.IDSet) []models.Announcement {
	toShow := make([]models.Announcement, 0, len(active))
	for _, a := range active {
		if a.ShowOnce() {
			if permanentSeen.Has(a.ID) {
				continue
			}
		} else if sessionSeen.Has(a.ID) {
			continue
		}
		toShow = append(toShow, a)
	}
	return toShow
}

// Partition splits the ids of toShow by the registry that must record them.
func Partition(toShow []models.Announcement) (sessionIDs, permanentIDs []string) {
	for _, a := range toShow {
		if a.ShowOnce() {
			permanentIDs = append(permanentIDs, a.ID)
		} else {
			sessionIDs = append(sessionIDs, a.ID)
		}
	}
	return sessionIDs, permanentIDs
}
