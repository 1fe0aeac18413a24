package ports

import (
	"context"

	"github.com/whosinhq/whosin/internal/domain"
)

// Directory lists the people whose calendars get ingested. Implementations
// select the primary email and primary display name per entry, fall back to
// the email when no primary name is flagged, and drop entries without a
// primary email.
type Directory interface {
	ListPeople(ctx context.Context) ([]domain.Person, error)
}

// RoomRef identifies one bookable room's calendar before simplification.
type RoomRef struct {
	ID   string
	Name string
}

// Calendar lists calendar contents. All implementations surface
// domain.ErrReauthRequired when the upstream rejects the credential.
type Calendar interface {
	ListEvents(ctx context.Context, calendarID string, from, to domain.Day) ([]domain.CalendarEvent, error)
	ListRooms(ctx context.Context) ([]RoomRef, error)
	ListRoomEvents(ctx context.Context, roomID string, from, to domain.Day) ([]domain.RoomEvent, error)
}

// SettingsRepository persists user preferences in the settings namespace.
type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
