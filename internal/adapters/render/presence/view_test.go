package presence

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whosinhq/whosin/internal/application"
	"github.com/whosinhq/whosin/internal/domain"
)

func sampleSnapshot() application.Snapshot {
	return application.Snapshot{
		GeneratedAt:     time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC),
		Window:          []domain.Day{"2024-01-08", "2024-01-09", "2024-01-10"},
		People:          []domain.Person{{Email: "ana@example.com", Name: "Ana Costa"}, {Email: "bob@example.com", Name: "Bob Lee"}},
		HiddenPeople:    []string{"bob@example.com"},
		AssumedLocation: domain.LocationOffice,
		Entries: []domain.LocationEntry{
			{Date: "2024-01-08", Email: "ana@example.com", Location: domain.LocationHome},
		},
	}
}

func TestRenderGrid(t *testing.T) {
	output, err := Render(sampleSnapshot(), RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "Team presence")
	assert.Contains(t, output, "people: 2")
	assert.Contains(t, output, "Mon 08 Jan")
	assert.Contains(t, output, "Ana Costa")
	assert.Contains(t, output, "home")
	// Days without an explicit entry fall back to the assumed location.
	assert.Contains(t, output, "office")
	assert.NotContains(t, output, "Bob Lee")
}

func TestRenderShowHidden(t *testing.T) {
	output, err := Render(sampleSnapshot(), RenderOptions{ShowHidden: true})
	require.NoError(t, err)

	assert.Contains(t, output, "Ana Costa")
	assert.Contains(t, output, "Bob Lee")
}

func TestRenderEmptySnapshot(t *testing.T) {
	output, err := Render(application.Snapshot{}, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No people discovered.")
}

func TestRenderRooms(t *testing.T) {
	start := time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC)
	output, err := RenderRooms([]domain.Room{
		{
			Name:          "Room A",
			MaxAttendance: 4,
			Events: []domain.RoomEvent{
				{Start: start, End: start.Add(time.Hour), Title: "Design review"},
			},
		},
		{Name: "Room C"},
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Room A")
	assert.Contains(t, output, "(seats 4)")
	assert.Contains(t, output, "Design review")
	assert.Contains(t, output, "Room C")
	assert.Contains(t, output, "free")
}

func TestRenderRoomsEmpty(t *testing.T) {
	output, err := RenderRooms(nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No rooms found.")
}

func TestPadTruncatesLongNames(t *testing.T) {
	padded := pad("An Extremely Long Meeting Room Name", 12)
	assert.Equal(t, 12, utf8.RuneCountInString(padded))
	assert.Contains(t, padded, "…")

	assert.Equal(t, "abc   ", pad("abc", 6))
}

func TestPadTruncatesMultibyteNamesOnRuneBoundaries(t *testing.T) {
	padded := pad("Åsa Öörnsköldsvik Rum Norr", 12)
	assert.True(t, utf8.ValidString(padded))
	assert.Equal(t, 12, utf8.RuneCountInString(padded))
	assert.Equal(t, "Åsa Öörnskö…", padded)

	// Multibyte names shorter than the column pad by rune count, not bytes.
	assert.Equal(t, "Åäö   ", pad("Åäö", 6))
}
