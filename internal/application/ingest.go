package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/whosinhq/whosin/internal/domain"
	"github.com/whosinhq/whosin/internal/ports"
)

// Ingestor runs one ingestion pass: stored settings seed a fresh State,
// directory people are discovered, their calendars folded day by day, and
// the room set is rebuilt and simplified. All actions are applied strictly
// one at a time in the order the calls resolve.
type Ingestor struct {
	directory     ports.Directory
	calendar      ports.Calendar
	secrets       ports.SecretStore
	settings      ports.SettingsRepository
	clock         ports.Clock
	credentialKey string
	windowDays    int
	log           *slog.Logger
}

func NewIngestor(
	directory ports.Directory,
	calendar ports.Calendar,
	secrets ports.SecretStore,
	settings ports.SettingsRepository,
	clock ports.Clock,
	credentialKey string,
	windowDays int,
	log *slog.Logger,
) *Ingestor {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	// A misconfigured window would leave Run with no days to fold.
	if windowDays < 1 {
		windowDays = 1
	}
	return &Ingestor{
		directory:     directory,
		calendar:      calendar,
		secrets:       secrets,
		settings:      settings,
		clock:         clock,
		credentialKey: credentialKey,
		windowDays:    windowDays,
		log:           log,
	}
}

// Run executes one pass. On failure the pass stops issuing requests and the
// snapshot folded so far is returned alongside the error; already-applied
// actions are never rolled back. An unauthorized upstream response clears
// the stored credential before the error surfaces.
func (i *Ingestor) Run(ctx context.Context) (Snapshot, error) {
	settings, err := i.settings.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load settings: %w", err)
	}

	state := domain.NewState()
	for _, action := range settings.Actions() {
		state = domain.Reduce(state, action)
	}

	window := domain.WorkingDayWindow(domain.DayOf(i.clock.Now()), i.windowDays)
	from, to := window[0], window[len(window)-1]

	people, err := i.directory.ListPeople(ctx)
	if err != nil {
		return i.snapshot(state, window, nil), i.fail(ctx, err)
	}

	for _, person := range people {
		state = domain.Reduce(state, domain.DiscoverPerson{Email: person.Email, Name: person.Name})

		events, err := i.calendar.ListEvents(ctx, person.Email, from, to)
		if err != nil {
			return i.snapshot(state, window, nil), i.fail(ctx, err)
		}
		for _, event := range events {
			state = domain.Reduce(state, domain.AddPersonEvent{Email: person.Email, Event: event})
		}
	}

	rooms, err := i.ingestRooms(ctx, from, to)
	if err != nil {
		return i.snapshot(state, window, nil), i.fail(ctx, err)
	}

	i.logger().Debug("ingestion pass complete",
		"people", len(state.People), "entries", len(state.Entries()), "rooms", len(rooms))

	return i.snapshot(state, window, rooms), nil
}

func (i *Ingestor) ingestRooms(ctx context.Context, from, to domain.Day) ([]domain.Room, error) {
	refs, err := i.calendar.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0, len(refs))
	for _, ref := range refs {
		events, err := i.calendar.ListRoomEvents(ctx, ref.ID, from, to)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, domain.Room{Name: ref.Name, Events: events})
	}

	// The shared prefix is global to the set, so simplification runs once
	// over the fully aggregated list.
	return domain.SimplifyRoomNames(rooms), nil
}

func (i *Ingestor) snapshot(state domain.State, window []domain.Day, rooms []domain.Room) Snapshot {
	return Snapshot{
		GeneratedAt:     i.clock.Now(),
		Window:          window,
		People:          state.People,
		HiddenPeople:    state.HiddenPeople(),
		AssumedLocation: state.AssumedLocation,
		Entries:         state.Entries(),
		Rooms:           rooms,
	}
}

// logger resolves at call time so a default handler installed after wiring
// (the CLI configures it from a flag) still applies.
func (i *Ingestor) logger() *slog.Logger {
	if i.log != nil {
		return i.log
	}
	return slog.Default()
}

func (i *Ingestor) fail(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrReauthRequired) {
		i.logger().Warn("upstream rejected credential, clearing it")
		if deleteErr := i.secrets.Delete(ctx, i.credentialKey); deleteErr != nil {
			return fmt.Errorf("clear rejected credential: %w", errors.Join(err, deleteErr))
		}
	}
	return err
}
