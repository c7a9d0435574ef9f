package postgres

import (
	"time"
)

// The database keeps naive civil timestamps, interpreted as wall-clock time
// in the service timezone. toCivil strips the zone before a write and
// fromCivil reattaches it after a scan; no other layer may do either.

// toCivil rewrites an aware instant as the same wall-clock reading in loc,
// carried in UTC so pgx encodes it as a plain timestamp without conversion.
func toCivil(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(),
		time.UTC,
	)
}

// fromCivil interprets a scanned naive timestamp as wall-clock time in loc.
func fromCivil(t time.Time, loc *time.Location) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		loc,
	)
}

func toCivilPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	c := toCivil(*t, loc)
	return &c
}

func fromCivilPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	a := fromCivil(*t, loc)
	return &a
}
