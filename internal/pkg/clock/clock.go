package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock backed by time.Now.
type TimeClocker struct {
	loc *time.Location
}

// New returns a TimeClocker in the process local zone.
func New() *TimeClocker {
	return &TimeClocker{loc: time.Local}
}

// NewIn returns a TimeClocker reporting times in loc.
func NewIn(loc *time.Location) *TimeClocker {
	if loc == nil {
		loc = time.Local
	}
	return &TimeClocker{loc: loc}
}

func (c *TimeClocker) Now() time.Time {
	return time.Now().In(c.loc)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
