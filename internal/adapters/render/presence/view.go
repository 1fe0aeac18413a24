// Package presence renders folded snapshots for the terminal.
package presence

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/whosinhq/whosin/internal/application"
	"github.com/whosinhq/whosin/internal/domain"
)

const nameColumnWidth = 24

type RenderOptions struct {
	ShowHidden bool
}

// Render draws the people-by-working-day grid. Hidden people are skipped
// unless ShowHidden is set; days without an explicit entry show the assumed
// location in a muted style.
func Render(snapshot application.Snapshot, opts RenderOptions) (string, error) {
	s := newStyles()

	lines := []string{
		s.title.Render("Team presence"),
		s.header.Render(fmt.Sprintf("people: %d, generated: %s",
			len(snapshot.People), snapshot.GeneratedAt.Format(time.RFC3339))),
	}

	if len(snapshot.People) == 0 {
		lines = append(lines, s.empty.Render("No people discovered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
	}

	lines = append(lines, s.section.Render(headerRow(snapshot.Window, s)))

	hidden := make(map[string]struct{}, len(snapshot.HiddenPeople))
	for _, email := range snapshot.HiddenPeople {
		hidden[email] = struct{}{}
	}

	explicit := make(map[string]domain.Location, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		explicit[entryLookupKey(entry.Email, entry.Date)] = entry.Location
	}

	for _, person := range snapshot.People {
		if _, isHidden := hidden[person.Email]; isHidden && !opts.ShowHidden {
			continue
		}
		lines = append(lines, personRow(person, snapshot, explicit, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

func headerRow(window []domain.Day, s styles) string {
	cells := []string{pad("", nameColumnWidth)}
	for _, day := range window {
		cells = append(cells, s.dayHead.Render(pad(day.Time().Format("Mon 02 Jan"), 12)))
	}
	return strings.Join(cells, " ")
}

func personRow(person domain.Person, snapshot application.Snapshot, explicit map[string]domain.Location, s styles) string {
	cells := []string{s.person.Render(pad(person.Name, nameColumnWidth))}
	for _, day := range snapshot.Window {
		location, ok := explicit[entryLookupKey(person.Email, day)]
		if !ok {
			cells = append(cells, s.assumed.Render(pad(snapshot.AssumedLocation.Label(), 12)))
			continue
		}
		cells = append(cells, locationStyle(location, s).Render(pad(location.Label(), 12)))
	}
	return strings.Join(cells, " ")
}

func locationStyle(location domain.Location, s styles) lipgloss.Style {
	switch location {
	case domain.LocationOffice:
		return s.office
	case domain.LocationHome:
		return s.home
	default:
		return s.unknown
	}
}

// RenderRooms draws the simplified room list with capacities and bookings.
func RenderRooms(rooms []domain.Room) (string, error) {
	s := newStyles()

	lines := []string{s.title.Render("Rooms")}
	if len(rooms) == 0 {
		lines = append(lines, s.empty.Render("No rooms found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
	}

	for _, room := range rooms {
		header := s.roomName.Render(room.Name)
		if room.MaxAttendance > 0 {
			header += " " + s.roomMeta.Render(fmt.Sprintf("(seats %d)", room.MaxAttendance))
		}
		lines = append(lines, s.section.Render(header))

		if len(room.Events) == 0 {
			lines = append(lines, s.empty.Render("  free"))
			continue
		}
		for _, event := range room.Events {
			lines = append(lines, s.roomEvent.Render(fmt.Sprintf("  %s - %s  %s",
				event.Start.Format("Mon 15:04"), event.End.Format("15:04"), event.Title)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

func entryLookupKey(email string, day domain.Day) string {
	return string(day) + "|" + email
}

func pad(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return value + strings.Repeat(" ", width-len(runes))
}
