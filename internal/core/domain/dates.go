package domain

import "time"

const secondsPerDay = 24 * 60 * 60

// DateLayout is the only accepted calendar date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses s as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// DaysBetween returns the whole number of days from initial to final.
// final must be strictly after initial.
func DaysBetween(initial, final string) (int, error) {
	from, err := ParseDate(initial)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(final)
	if err != nil {
		return 0, err
	}
	if !from.Before(to) {
		return 0, ErrDateOrder
	}
	// both are UTC midnights; Unix seconds avoid Duration's ~292 year range
	return int((to.Unix() - from.Unix()) / secondsPerDay), nil
}
