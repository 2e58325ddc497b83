package appointment

import "time"

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// IsPast reports whether the slot starts before now, with the slot's
// wall clock read in loc.
func IsPast(date, hhmmss string, now time.Time, loc *time.Location) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	t, ok := ParseTimeOfDay(hhmmss)
	if !ok {
		return false
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), int(t)/60, int(t)%60, 0, 0, loc)
	return start.Before(now.In(loc))
}
