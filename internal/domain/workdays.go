package domain

import "time"

// NextWorkingDay maps weekend dates forward to the following Monday and
// returns working days unchanged.
func NextWorkingDay(d Day) Day {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(1)
	default:
		return d
	}
}

// WorkingDayWindow builds a window of count working days ending at
// NextWorkingDay(today), walking backward one calendar day at a time and
// skipping Saturdays and Sundays. The result is in ascending order.
func WorkingDayWindow(today Day, count int) []Day {
	if count <= 0 {
		return nil
	}

	window := make([]Day, count)
	cursor := NextWorkingDay(today)
	window[count-1] = cursor

	for i := count - 2; i >= 0; i-- {
		cursor = cursor.AddDays(-1)
		for cursor.Weekday() == time.Saturday || cursor.Weekday() == time.Sunday {
			cursor = cursor.AddDays(-1)
		}
		window[i] = cursor
	}
	return window
}
