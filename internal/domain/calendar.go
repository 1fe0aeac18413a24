package domain

import "time"

type EventKind string

var (
	EventKindWorkingLocation EventKind = "workingLocation"
	EventKindOutOfOffice     EventKind = "outOfOffice"
	EventKindFocusTime       EventKind = "focusTime"
	EventKindDefault         EventKind = "default"
)

// CalendarEvent is one item from a person's calendar listing. Working
// location events carry date-only bounds (End exclusive) and a Location;
// every other kind carries timed bounds and a free-text title.
type CalendarEvent struct {
	Kind     EventKind
	Start    Day
	End      Day
	Location Location
	StartsAt time.Time
	EndsAt   time.Time
	Title    string
}
