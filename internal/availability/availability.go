// Package availability computes booking dates and time slots for services
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot is a one-hour booking window
type Slot struct {
	Label     string `json:"label"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

const (
	defaultStartHour = 9
	defaultEndHour   = 16
)

// GenerateSlots produces the contiguous hourly windows between startTime and
// endTime ("HH:MM", hour granularity). An unparseable or inverted range
// falls back to the default 09:00-16:00 range of seven slots. Pure;
// recomputed on every call.
func GenerateSlots(startTime, endTime string) []Slot {
	start, err1 := parseHour(startTime)
	end, err2 := parseHour(endTime)
	if err1 != nil || err2 != nil || start >= end {
		start, end = defaultStartHour, defaultEndHour
	}

	slots := make([]Slot, 0, end-start)
	for h := start; h < end; h++ {
		slots = append(slots, Slot{
			Label:     fmt.Sprintf("%02d:00 - %02d:00", h, h+1),
			StartHour: h,
			EndHour:   h + 1,
		})
	}
	return slots
}

// IsDateAvailable reports whether a date can be booked. Dates strictly
// before the current local day are never available. A non-empty set of
// weekday names restricts bookings to those days; names match
// case-insensitively in both "Mon" and "Monday" forms. An empty set allows
// every day.
func IsDateAvailable(date time.Time, availableDays []string) bool {
	today := truncateToDay(time.Now())
	if truncateToDay(date).Before(today) {
		return false
	}

	if len(availableDays) == 0 {
		return true
	}

	full := strings.ToLower(date.Weekday().String())
	abbr := full[:3]
	for _, day := range availableDays {
		switch strings.ToLower(strings.TrimSpace(day)) {
		case full, abbr:
			return true
		}
	}
	return false
}

func parseHour(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	return h, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
