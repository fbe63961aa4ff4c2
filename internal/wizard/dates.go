package wizard

import (
	"time"

	"github.com/meetslot/meetslot-web/internal/meetslot"
)

// DefaultHorizonDays is how far into the future a date may be booked.
const DefaultHorizonDays = 60

// IsDateAvailable reports whether a calendar date is selectable for a
// meeting type: not before today, not beyond the booking horizon, and — when
// the meeting type restricts weekdays — on an allowed weekday. Times of day
// are ignored; only the calendar date matters.
func IsDateAvailable(mt meetslot.MeetingType, today, date time.Time, horizonDays int) bool {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	today = truncateToDay(today)
	date = truncateToDay(date)

	if date.Before(today) {
		return false
	}
	if date.After(today.AddDate(0, 0, horizonDays)) {
		return false
	}
	return weekdayAllowed(mt, date.Weekday())
}

// NextAvailableDate finds the earliest selectable date at or after today.
// The second return is false when nothing inside the horizon qualifies.
func NextAvailableDate(mt meetslot.MeetingType, today time.Time, horizonDays int) (time.Time, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	day := truncateToDay(today)
	for i := 0; i <= horizonDays; i++ {
		if weekdayAllowed(mt, day.Weekday()) {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// weekdayAllowed checks the meeting type's weekday restriction. An empty
// AvailableDays set means no restriction.
func weekdayAllowed(mt meetslot.MeetingType, wd time.Weekday) bool {
	if len(mt.AvailableDays) == 0 {
		return true
	}
	for _, d := range mt.AvailableDays {
		if d == int(wd) {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
