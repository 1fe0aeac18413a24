package domain

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is an ISO calendar date ("2006-01-02"). The string form sorts
// chronologically, so Day values compare with the usual string operators.
type Day string

func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

func ParseDay(raw string) (Day, error) {
	t, err := time.Parse(dayLayout, raw)
	if err != nil {
		return "", fmt.Errorf("parse calendar date %q: %w", raw, err)
	}
	return DayOf(t), nil
}

// Time returns the date at midnight UTC. Day arithmetic goes through UTC so
// that DST transitions in the local zone can never skip or repeat a date.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Day) IsZero() bool {
	return d == ""
}
