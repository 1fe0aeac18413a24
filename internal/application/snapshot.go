package application

import (
	"sync"
	"time"

	"github.com/whosinhq/whosin/internal/domain"
)

// Snapshot is one fully folded ingestion pass: the sole input for any
// presentation surface.
type Snapshot struct {
	GeneratedAt     time.Time              `json:"generatedAt"`
	Window          []domain.Day           `json:"window"`
	People          []domain.Person        `json:"people"`
	HiddenPeople    []string               `json:"hiddenPeople"`
	AssumedLocation domain.Location        `json:"assumedLocation"`
	Entries         []domain.LocationEntry `json:"entries"`
	Rooms           []domain.Room          `json:"rooms"`
}

// LocationFor mirrors the reducer fallback: an explicit entry wins,
// otherwise the assumed location applies.
func (s Snapshot) LocationFor(email string, day domain.Day) domain.Location {
	for _, entry := range s.Entries {
		if entry.Email == email && entry.Date == day {
			return entry.Location
		}
	}
	return s.AssumedLocation
}

// SnapshotHolder keeps the latest snapshot for long-running mode. A failed
// refresh never replaces the last good snapshot.
type SnapshotHolder struct {
	mu       sync.RWMutex
	latest   Snapshot
	hasValue bool
}

func (h *SnapshotHolder) Set(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = s
	h.hasValue = true
}

func (h *SnapshotHolder) Latest() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasValue
}
