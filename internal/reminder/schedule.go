package reminder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrBadTime    = errors.New("time must be HH:MM")
	ErrBadWeekday = errors.New("weekdays must be mon,tue,wed,thu,fri,sat,sun")
)

var weekdayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, ErrBadTime
	}
	return t.Hour(), t.Minute(), nil
}

// ParseWeekdays accepts a comma list of three-letter names. Empty means
// every day. The result is in calendar order without duplicates.
func ParseWeekdays(s string) ([]string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return []string{}, nil
	}
	seen := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if len(p) > 3 {
			p = p[:3]
		}
		if !slices.Contains(weekdayNames, p) {
			return nil, fmt.Errorf("%w: %q", ErrBadWeekday, p)
		}
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for _, n := range weekdayNames {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

// NextRun returns the first moment strictly after `after` that falls on
// an allowed weekday at the subscription time in loc.
func NextRun(after time.Time, at string, weekdays []string, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(at)
	if err != nil {
		return time.Time{}, err
	}
	local := after.In(loc)
	for i := 0; i <= 7; i++ {
		d := local.AddDate(0, 0, i)
		cand := time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc)
		if !cand.After(after) {
			continue
		}
		if len(weekdays) == 0 || slices.Contains(weekdays, weekdayNames[cand.Weekday()]) {
			return cand, nil
		}
	}
	return time.Time{}, ErrBadWeekday
}

// Describe is a human summary used in bot replies.
func Describe(at string, weekdays []string) string {
	if len(weekdays) == 0 {
		return "every day at " + at
	}
	return strings.Join(weekdays, ", ") + " at " + at
}
