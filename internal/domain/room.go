package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type RoomEvent struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

// Room is rebuilt from scratch on every ingestion pass and never persisted.
// MaxAttendance is zero when the room name carried no capacity annotation.
type Room struct {
	Name          string      `json:"name"`
	MaxAttendance int         `json:"maxAttendance,omitempty"`
	Events        []RoomEvent `json:"events"`
}

var capacityPattern = regexp.MustCompile(`\s*\((\d+)\)\s*$`)

const minSharedPrefixLen = 3

// SimplifyRoomNames shortens display names across the whole room set. A
// trailing "(<n>)" annotation becomes MaxAttendance, then the longest common
// leading substring of all names is stripped from the names that carry it.
// The prefix is global to the set, so this runs once per ingestion pass.
func SimplifyRoomNames(rooms []Room) []Room {
	simplified := make([]Room, len(rooms))
	for i, room := range rooms {
		room.Name, room.MaxAttendance = extractCapacity(room.Name)
		simplified[i] = room
	}

	if len(simplified) < 2 {
		return simplified
	}

	names := make([]string, len(simplified))
	for i, room := range simplified {
		names[i] = room.Name
	}

	prefix := sharedNamePrefix(names)
	if len(prefix) < minSharedPrefixLen {
		return simplified
	}

	for i := range simplified {
		if rest, ok := strings.CutPrefix(simplified[i].Name, prefix); ok {
			simplified[i].Name = strings.TrimLeft(rest, " \t")
		}
	}
	return simplified
}

func extractCapacity(name string) (string, int) {
	match := capacityPattern.FindStringSubmatch(name)
	if match == nil {
		return name, 0
	}
	capacity, err := strconv.Atoi(match[1])
	if err != nil {
		return name, 0
	}
	return strings.TrimRight(name[:len(name)-len(match[0])], " \t"), capacity
}

// sharedNamePrefix computes the case-sensitive longest common prefix and
// cuts it back to whole tokens: trailing separator characters (anything that
// is not a letter, digit or hyphen) are trimmed, then the last token is
// dropped so that the shared head word stays on every name. "HQ - Room A" /
// "HQ - Room B" therefore simplify to "Room A" / "Room B", not "A" / "B".
func sharedNamePrefix(names []string) string {
	prefix := names[0]
	for _, name := range names[1:] {
		prefix = commonPrefix(prefix, name)
		if prefix == "" {
			return ""
		}
	}

	runes := []rune(prefix)
	end := len(runes)
	for end > 0 && !nameToken(runes[end-1]) {
		end--
	}
	for end > 0 && nameToken(runes[end-1]) {
		end--
	}
	return string(runes[:end])
}

func commonPrefix(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	limit := len(ra)
	if len(rb) < limit {
		limit = len(rb)
	}
	i := 0
	for i < limit && ra[i] == rb[i] {
		i++
	}
	return string(ra[:i])
}

func nameToken(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}
