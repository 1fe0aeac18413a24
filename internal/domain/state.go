package domain

import "sort"

type Person struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LocationEntry is the folded location for one person on one day, unique by
// (Date, Email).
type LocationEntry struct {
	Date     Day      `json:"date"`
	Email    string   `json:"email"`
	Location Location `json:"location"`
}

type entryKey struct {
	Date  Day
	Email string
}

// State is the snapshot the reducer folds actions into. Reduce returns a new
// value on every change and never mutates its input, so callers may hold on
// to old snapshots; when an action is a no-op the input State is returned
// as-is, which keeps shallow equality checks meaningful.
type State struct {
	People          []Person
	AssumedLocation Location
	hidden          map[string]struct{}
	days            map[entryKey]Location
}

func NewState() State {
	return State{AssumedLocation: LocationUnknown}
}

// Action is one reducer input. Reducing the same ordered action sequence
// from NewState always yields an identical State; no action consults the
// wall clock or any other ambient source.
type Action interface {
	isAction()
}

// DiscoverPerson appends a person on first sight; a repeated email is a
// no-op.
type DiscoverPerson struct {
	Email string
	Name  string
}

// AddPersonEvent folds one calendar event for a person. Only working
// location events change the State; the remaining kinds are accepted and
// deliberately ignored.
type AddPersonEvent struct {
	Email string
	Event CalendarEvent
}

// SetPreferredLocation replaces the fallback location used for days without
// an explicit entry.
type SetPreferredLocation struct {
	Location Location
}

// SetPersonVisibility toggles a person in the hidden set: Visible true
// removes the email, false adds it. The flag tracks the "shown" checkbox of
// the consuming surface, which is why it is named for visibility rather than
// for the set it maintains.
type SetPersonVisibility struct {
	Email   string
	Visible bool
}

func (DiscoverPerson) isAction()       {}
func (AddPersonEvent) isAction()       {}
func (SetPreferredLocation) isAction() {}
func (SetPersonVisibility) isAction()  {}

func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case DiscoverPerson:
		return reduceDiscover(s, action)
	case AddPersonEvent:
		return reduceEvent(s, action)
	case SetPreferredLocation:
		next := s
		next.AssumedLocation = action.Location
		return next
	case SetPersonVisibility:
		return reduceVisibility(s, action)
	default:
		return s
	}
}

func reduceDiscover(s State, a DiscoverPerson) State {
	for _, p := range s.People {
		if p.Email == a.Email {
			return s
		}
	}

	next := s
	next.People = make([]Person, len(s.People), len(s.People)+1)
	copy(next.People, s.People)
	next.People = append(next.People, Person{Email: a.Email, Name: a.Name})
	return next
}

func reduceEvent(s State, a AddPersonEvent) State {
	if a.Event.Kind != EventKindWorkingLocation {
		// Out-of-office, focus time and plain events are not folded into
		// location state yet.
		return s
	}
	if a.Event.Start.IsZero() || a.Event.End.IsZero() {
		return s
	}

	location := a.Event.Location
	if location == "" {
		location = LocationUnknown
	}

	next := s
	next.days = make(map[entryKey]Location, len(s.days)+1)
	for k, v := range s.days {
		next.days[k] = v
	}

	// Start is inclusive, End exclusive.
	for d := a.Event.Start; d < a.Event.End; d = d.AddDays(1) {
		next.days[entryKey{Date: d, Email: a.Email}] = location
	}
	return next
}

func reduceVisibility(s State, a SetPersonVisibility) State {
	_, present := s.hidden[a.Email]
	if a.Visible == !present {
		return s
	}

	next := s
	next.hidden = make(map[string]struct{}, len(s.hidden)+1)
	for email := range s.hidden {
		next.hidden[email] = struct{}{}
	}
	if a.Visible {
		delete(next.hidden, a.Email)
	} else {
		next.hidden[a.Email] = struct{}{}
	}
	return next
}

// Entries returns the folded per-day entries ordered by date, then email.
func (s State) Entries() []LocationEntry {
	entries := make([]LocationEntry, 0, len(s.days))
	for k, location := range s.days {
		entries = append(entries, LocationEntry{Date: k.Date, Email: k.Email, Location: location})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Email < entries[j].Email
	})
	return entries
}

// LocationFor resolves a person's location on a day, falling back to the
// assumed location when no event covered it.
func (s State) LocationFor(email string, day Day) Location {
	if location, ok := s.days[entryKey{Date: day, Email: email}]; ok {
		return location
	}
	return s.AssumedLocation
}

func (s State) Hidden(email string) bool {
	_, ok := s.hidden[email]
	return ok
}

// HiddenPeople returns the hidden set as a sorted slice.
func (s State) HiddenPeople() []string {
	emails := make([]string, 0, len(s.hidden))
	for email := range s.hidden {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

// VisiblePeople preserves discovery order.
func (s State) VisiblePeople() []Person {
	people := make([]Person, 0, len(s.People))
	for _, p := range s.People {
		if !s.Hidden(p.Email) {
			people = append(people, p)
		}
	}
	return people
}
