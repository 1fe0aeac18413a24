package gsuite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whosinhq/whosin/internal/cache"
	"github.com/whosinhq/whosin/internal/domain"
	"github.com/whosinhq/whosin/internal/ports"
)

type memStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]string{}}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return value, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]string{}
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func staticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, serverURL string) (*Client, *memStore) {
	t.Helper()

	store := newMemStore()
	clock := fixedClock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)}
	responseCache := cache.New(store, clock, discardLogger())

	cfg := Config{
		DirectoryBaseURL: serverURL,
		CalendarBaseURL:  serverURL,
		DirectoryTTL:     time.Hour,
		EventsTTL:        time.Hour,
		RoomsTTL:         time.Hour,
	}
	return NewClient(cfg, nil, responseCache, staticToken("tok-123")), store
}

func TestListPeoplePaginatesAndFiltersPrimaryEmail(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/people", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{
				"people": [
					{"emailAddresses": [{"value": "ana@example.com", "metadata": {"primary": true}}],
					 "names": [{"displayName": "Ana Costa", "metadata": {"primary": true}}]},
					{"emailAddresses": [{"value": "alias@example.com", "metadata": {"primary": false}}]}
				],
				"nextPageToken": "page-2"
			}`)
			return
		}

		require.Equal(t, "page-2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{
			"people": [
				{"emailAddresses": [{"value": "bob@example.com", "metadata": {"primary": true}}]}
			]
		}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	people, err := client.ListPeople(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, hits)

	require.Len(t, people, 2)
	assert.Equal(t, domain.Person{Email: "ana@example.com", Name: "Ana Costa"}, people[0])
	// No primary display name: the email doubles as the name.
	assert.Equal(t, domain.Person{Email: "bob@example.com", Name: "bob@example.com"}, people[1])
}

func TestListPeopleSecondCallServedFromCache(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprint(w, `{"people": [{"emailAddresses": [{"value": "ana@example.com", "metadata": {"primary": true}}]}]}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	first, err := client.ListPeople(context.Background())
	require.NoError(t, err)
	second, err := client.ListPeople(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
}

func TestListEventsParsesWorkingLocationAndTimedEvents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/ana@example.com/events", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		fmt.Fprint(w, `{
			"items": [
				{"eventType": "workingLocation",
				 "start": {"date": "2024-01-08"}, "end": {"date": "2024-01-10"},
				 "workingLocationProperties": {"type": "homeOffice"}},
				{"eventType": "default", "summary": "Standup",
				 "start": {"dateTime": "2024-01-08T09:00:00Z"},
				 "end": {"dateTime": "2024-01-08T09:15:00Z"}},
				{"eventType": "workingLocation",
				 "start": {"date": "not-a-date"}, "end": {"date": "2024-01-10"}}
			]
		}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	events, err := client.ListEvents(context.Background(), "ana@example.com", domain.Day("2024-01-08"), domain.Day("2024-01-12"))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domain.EventKindWorkingLocation, events[0].Kind)
	assert.Equal(t, domain.Day("2024-01-08"), events[0].Start)
	assert.Equal(t, domain.Day("2024-01-10"), events[0].End)
	assert.Equal(t, domain.LocationHome, events[0].Location)

	assert.Equal(t, domain.EventKindDefault, events[1].Kind)
	assert.Equal(t, "Standup", events[1].Title)
	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), events[1].StartsAt)
}

func TestListRoomsSkipsIncompleteEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resources/calendars", r.URL.Path)
		fmt.Fprint(w, `{
			"items": [
				{"resourceEmail": "room-a@resource.example.com", "resourceName": "HQ - Room A (4)"},
				{"resourceEmail": "", "resourceName": "Nameless"},
				{"resourceEmail": "room-b@resource.example.com", "resourceName": "HQ - Room B (8)"}
			]
		}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	rooms, err := client.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, ports.RoomRef{ID: "room-a@resource.example.com", Name: "HQ - Room A (4)"}, rooms[0])
}

func TestListRoomEventsRequiresTimedBounds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"summary": "Design review",
				 "start": {"dateTime": "2024-01-08T13:00:00Z"},
				 "end": {"dateTime": "2024-01-08T14:00:00Z"}},
				{"summary": "All day thing", "start": {"date": "2024-01-08"}, "end": {"date": "2024-01-09"}}
			]
		}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	events, err := client.ListRoomEvents(context.Background(), "room-a@resource.example.com", domain.Day("2024-01-08"), domain.Day("2024-01-08"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Design review", events[0].Title)
}

func TestUnauthorizedSurfacesReauthAndIsNotCached(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL)

	_, err := client.ListPeople(context.Background())
	require.ErrorIs(t, err, domain.ErrReauthRequired)

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = client.ListPeople(context.Background())
	require.ErrorIs(t, err, domain.ErrReauthRequired)
	assert.Equal(t, 2, hits)
}

func TestServerErrorIsNotReauth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.ListPeople(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrReauthRequired)
	assert.Contains(t, err.Error(), "status 500")
}
