package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseStart combines a calendar date and a 24-hour clock time into one instant in loc.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidTimestamp, date)
	}
	if _, err := time.Parse(TimeLayout, clock); err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidTimestamp, clock)
	}
	start, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return start, nil
}
