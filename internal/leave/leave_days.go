package leave

import "time"

// CountDays counts the calendar days from start to end inclusive, leaving
// out Saturdays and Sundays when excludeWeekends is set.
func CountDays(start, end time.Time, excludeWeekends bool) int {
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if excludeWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		days++
	}
	return days
}
