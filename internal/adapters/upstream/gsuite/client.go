// Package gsuite talks to the Workspace-style people-directory and calendar
// APIs. Every request goes through the response cache; an unauthorized
// status surfaces as domain.ErrReauthRequired and is never cached.
package gsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/whosinhq/whosin/internal/cache"
	"github.com/whosinhq/whosin/internal/domain"
	"github.com/whosinhq/whosin/internal/ports"
)

const (
	maxResponseBytes = 1 << 20
	pageSize         = "100"
)

// TokenSource yields the bearer token for one request.
type TokenSource func(ctx context.Context) (string, error)

type Config struct {
	DirectoryBaseURL string
	CalendarBaseURL  string
	DirectoryTTL     time.Duration
	EventsTTL        time.Duration
	RoomsTTL         time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.Cache
	token      TokenSource
}

var (
	_ ports.Directory = (*Client)(nil)
	_ ports.Calendar  = (*Client)(nil)
)

func NewClient(cfg Config, httpClient *http.Client, responseCache *cache.Cache, token TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient, cache: responseCache, token: token}
}

type personSchema struct {
	EmailAddresses []struct {
		Value    string `json:"value"`
		Metadata struct {
			Primary bool `json:"primary"`
		} `json:"metadata"`
	} `json:"emailAddresses"`
	Names []struct {
		DisplayName string `json:"displayName"`
		Metadata    struct {
			Primary bool `json:"primary"`
		} `json:"metadata"`
	} `json:"names"`
}

type peoplePage struct {
	People        []personSchema `json:"people"`
	NextPageToken string         `json:"nextPageToken"`
}

// ListPeople pages through the directory and keeps entries with a primary
// email, using the primary display name or, failing that, the email itself.
// Entries without a primary email are dropped, not an error.
func (c *Client) ListPeople(ctx context.Context) ([]domain.Person, error) {
	var people []domain.Person

	pageToken := ""
	for {
		query := url.Values{"pageSize": {pageSize}}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page peoplePage
		if err := c.getJSON(ctx, c.cfg.DirectoryBaseURL, "/people", query, c.cfg.DirectoryTTL, &page); err != nil {
			return nil, fmt.Errorf("list directory people: %w", err)
		}

		for _, entry := range page.People {
			if person, ok := personFromSchema(entry); ok {
				people = append(people, person)
			}
		}

		if page.NextPageToken == "" {
			return people, nil
		}
		pageToken = page.NextPageToken
	}
}

func personFromSchema(entry personSchema) (domain.Person, bool) {
	email := ""
	for _, address := range entry.EmailAddresses {
		if address.Metadata.Primary && address.Value != "" {
			email = address.Value
			break
		}
	}
	if email == "" {
		return domain.Person{}, false
	}

	name := email
	for _, candidate := range entry.Names {
		if candidate.Metadata.Primary && candidate.DisplayName != "" {
			name = candidate.DisplayName
			break
		}
	}
	return domain.Person{Email: email, Name: name}, true
}

type eventSchema struct {
	EventType string `json:"eventType"`
	Summary   string `json:"summary"`
	Start     struct {
		Date     string `json:"date"`
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		Date     string `json:"date"`
		DateTime string `json:"dateTime"`
	} `json:"end"`
	WorkingLocationProperties *struct {
		Type string `json:"type"`
	} `json:"workingLocationProperties"`
}

type eventsPage struct {
	Items         []eventSchema `json:"items"`
	NextPageToken string        `json:"nextPageToken"`
}

func (c *Client) ListEvents(ctx context.Context, calendarID string, from, to domain.Day) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent

	err := c.eachEventPage(ctx, calendarID, from, to, func(item eventSchema) {
		if event, ok := calendarEventFromSchema(item); ok {
			events = append(events, event)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list events for %q: %w", calendarID, err)
	}
	return events, nil
}

func (c *Client) ListRoomEvents(ctx context.Context, roomID string, from, to domain.Day) ([]domain.RoomEvent, error) {
	var events []domain.RoomEvent

	err := c.eachEventPage(ctx, roomID, from, to, func(item eventSchema) {
		start, startErr := time.Parse(time.RFC3339, item.Start.DateTime)
		end, endErr := time.Parse(time.RFC3339, item.End.DateTime)
		if startErr != nil || endErr != nil {
			return
		}
		events = append(events, domain.RoomEvent{Start: start, End: end, Title: item.Summary})
	})
	if err != nil {
		return nil, fmt.Errorf("list room events for %q: %w", roomID, err)
	}
	return events, nil
}

func (c *Client) eachEventPage(ctx context.Context, calendarID string, from, to domain.Day, visit func(eventSchema)) error {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"

	pageToken := ""
	for {
		query := url.Values{
			"singleEvents": {"true"},
			"timeMin":      {from.Time().Format(time.RFC3339)},
			"timeMax":      {to.AddDays(1).Time().Format(time.RFC3339)},
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page eventsPage
		if err := c.getJSON(ctx, c.cfg.CalendarBaseURL, path, query, c.cfg.EventsTTL, &page); err != nil {
			return err
		}
		for _, item := range page.Items {
			visit(item)
		}

		if page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

func calendarEventFromSchema(item eventSchema) (domain.CalendarEvent, bool) {
	kind := domain.EventKind(item.EventType)
	if kind == "" {
		kind = domain.EventKindDefault
	}

	if kind == domain.EventKindWorkingLocation {
		start, startErr := domain.ParseDay(item.Start.Date)
		end, endErr := domain.ParseDay(item.End.Date)
		if startErr != nil || endErr != nil {
			return domain.CalendarEvent{}, false
		}

		location := domain.LocationUnknown
		if item.WorkingLocationProperties != nil {
			location = domain.ParseLocation(item.WorkingLocationProperties.Type)
		}
		return domain.CalendarEvent{Kind: kind, Start: start, End: end, Location: location}, true
	}

	startsAt, startErr := time.Parse(time.RFC3339, item.Start.DateTime)
	endsAt, endErr := time.Parse(time.RFC3339, item.End.DateTime)
	if startErr != nil || endErr != nil {
		return domain.CalendarEvent{}, false
	}
	return domain.CalendarEvent{Kind: kind, StartsAt: startsAt, EndsAt: endsAt, Title: item.Summary}, true
}

type roomSchema struct {
	ResourceEmail string `json:"resourceEmail"`
	ResourceName  string `json:"resourceName"`
}

type roomsPage struct {
	Items         []roomSchema `json:"items"`
	NextPageToken string       `json:"nextPageToken"`
}

func (c *Client) ListRooms(ctx context.Context) ([]ports.RoomRef, error) {
	var rooms []ports.RoomRef

	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page roomsPage
		if err := c.getJSON(ctx, c.cfg.DirectoryBaseURL, "/resources/calendars", query, c.cfg.RoomsTTL, &page); err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}

		for _, item := range page.Items {
			if item.ResourceEmail == "" || item.ResourceName == "" {
				continue
			}
			rooms = append(rooms, ports.RoomRef{ID: item.ResourceEmail, Name: item.ResourceName})
		}

		if page.NextPageToken == "" {
			return rooms, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) getJSON(ctx context.Context, baseURL, path string, query url.Values, ttl time.Duration, out any) error {
	endpoint := strings.TrimRight(baseURL, "/") + path
	req := cache.Request{Method: http.MethodGet, URL: endpoint, Query: query}

	data, err := c.cache.FetchCached(ctx, req, ttl, func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, endpoint, query)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	requestURL := endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("User-Agent", "whosin")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrReauthRequired, response.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.RawMessage(body), nil
}
