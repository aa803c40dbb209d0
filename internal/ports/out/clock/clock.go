package clock

import "time"

// Clock provides the current time to services and the booking wizard.
type Clock interface {
	Now() time.Time
}

// Today returns midnight UTC of the clock's current day.
func Today(c Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
