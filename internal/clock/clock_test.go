package clock

import (
	"testing"
	"time"
)

var ict = time.FixedZone("ICT", 7*60*60)

func at(hour, minute int) time.Time {
	return time.Date(2025, 10, 1, hour, minute, 0, 0, ict)
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(at(17, 45))
	want := time.Date(2025, 10, 1, 0, 0, 0, 0, ict)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestCutoffOn(t *testing.T) {
	got := CutoffOn(at(9, 15))
	want := time.Date(2025, 10, 1, CutoffHour, 0, 0, 0, ict)
	if !got.Equal(want) {
		t.Errorf("CutoffOn = %v, want %v", got, want)
	}
}

func TestNextCutoff(t *testing.T) {
	today := time.Date(2025, 10, 1, CutoffHour, 0, 0, 0, ict)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "morning resolves to today", now: at(9, 0), want: today},
		{name: "exactly at cutoff still counts as today", now: at(18, 0), want: today},
		{name: "one second past cutoff rolls to tomorrow", now: at(18, 0).Add(time.Second), want: tomorrow},
		{name: "late evening resolves to tomorrow", now: at(23, 30), want: tomorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextCutoff(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextCutoff(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestSystemClockUsesServiceZone(t *testing.T) {
	clk, err := NewSystem()
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	now := clk.Now()
	if now.Location() != clk.Location() {
		t.Errorf("Now() location = %v, want %v", now.Location(), clk.Location())
	}

	_, offset := now.Zone()
	if offset != 7*60*60 {
		t.Errorf("zone offset = %d, want +07:00", offset)
	}
}
