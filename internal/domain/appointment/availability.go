package appointment

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
)

// SlotStep is the fixed booking grid.
const SlotStep = 30

const DateLayout = "2006-01-02"

// TimeOfDay is a wall clock time in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	limits := []int{23, 59, 59}
	vals := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, false
		}
		vals[i] = n
	}

	return TimeOfDay(vals[0]*60 + vals[1]), true
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60)
}

// NormalizeTime renders s as HH:MM:SS, or returns false when s is not a
// valid time of day.
func NormalizeTime(s string) (string, bool) {
	t, ok := ParseTimeOfDay(s)
	if !ok {
		return "", false
	}
	return t.String(), true
}

// NormalizeSlotTime is NormalizeTime for booking requests: a slot starts on
// a whole minute, so "09:30:30" is rejected rather than truncated.
func NormalizeSlotTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ":"); len(parts) == 3 && parts[2] != "00" {
		return "", false
	}
	return NormalizeTime(s)
}

// GenerateTimeOptions yields the bookable slots between fromTime (inclusive)
// and toTime (exclusive) on the SlotStep grid. The sequence is empty when
// either bound is invalid or fromTime >= toTime, and can be ranged over
// any number of times.
func GenerateTimeOptions(fromTime, toTime string) iter.Seq[string] {
	from, okFrom := ParseTimeOfDay(fromTime)
	to, okTo := ParseTimeOfDay(toTime)

	return func(yield func(string) bool) {
		if !okFrom || !okTo || from >= to {
			return
		}
		for slot := from; slot < to; slot += SlotStep {
			if !yield(slot.String()) {
				return
			}
		}
	}
}

// IsTimeOnGrid reports whether candidate is one of the options generated
// for the [fromTime, toTime) window. Candidates with non-zero seconds are
// never on the grid.
func IsTimeOnGrid(fromTime, toTime, candidate string) bool {
	want, ok := NormalizeSlotTime(candidate)
	if !ok {
		return false
	}
	for slot := range GenerateTimeOptions(fromTime, toTime) {
		if slot == want {
			return true
		}
	}
	return false
}

// ParseDate parses a calendar date. The result is midnight UTC, which keeps
// the weekday independent of any server or clinic timezone.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsDateAvailable reports whether the weekday of date (Sunday=0) falls in
// the [fromWeekDay, toWeekDay] range. When fromWeekDay > toWeekDay the range
// wraps around the end of the week.
func IsDateAvailable(date string, fromWeekDay, toWeekDay int) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	return weekDayInRange(int(d.Weekday()), fromWeekDay, toWeekDay)
}

func weekDayInRange(day, from, to int) bool {
	if from <= to {
		return day >= from && day <= to
	}
	return day >= from || day <= to
}

// ValidateWindow checks a doctor's weekly availability configuration.
func ValidateWindow(fromWeekDay, toWeekDay int, fromTime, toTime string) error {
	if fromWeekDay < 0 || fromWeekDay > 6 || toWeekDay < 0 || toWeekDay > 6 {
		return httperr.ErrValidation("invalid_week_day")
	}

	from, okFrom := ParseTimeOfDay(fromTime)
	to, okTo := ParseTimeOfDay(toTime)
	if !okFrom || !okTo {
		return httperr.ErrValidation("invalid_time")
	}
	if from >= to {
		return httperr.ErrValidation("invalid_time_window")
	}

	return nil
}
