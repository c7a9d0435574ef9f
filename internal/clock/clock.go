// Package clock supplies the current instant in the fixed civil timezone the
// lending desk operates in, plus the daily return cutoff arithmetic shared by
// the threshold classifier and the escalation engine.
package clock

import (
	"fmt"
	"time"
)

const (
	zoneName = "Asia/Bangkok"

	// CutoffHour is the civil hour (18:00) after which an unreturned loan
	// due that day is considered overdue at the return desk.
	CutoffHour = 18
)

// Clock yields aware instants in the service timezone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// NewSystem returns a Clock backed by the wall clock, localized to the
// service timezone.
func NewSystem() (Clock, error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", zoneName, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CutoffOn returns the 18:00 cutoff instant of t's calendar day.
func CutoffOn(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, CutoffHour, 0, 0, 0, t.Location())
}

// NextCutoff returns today's cutoff when it has not passed yet, otherwise
// tomorrow's. An instant exactly at the cutoff still counts as today's.
func NextCutoff(now time.Time) time.Time {
	cutoff := CutoffOn(now)
	if now.After(cutoff) {
		return cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}
