package tier

import (
	"testing"
	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, bangkok)
}

func TestClassify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name string
		now  time.Time
		due  time.Time
		want domain.Tier
	}{
		{
			name: "due 17:45 evaluated 17:20 is due_soon",
			now:  at(2025, 10, 1, 17, 20),
			due:  at(2025, 10, 1, 17, 45),
			want: domain.TierDueSoon,
		},
		{
			name: "due 17:45 evaluated 17:35 is due_very_soon",
			now:  at(2025, 10, 1, 17, 35),
			due:  at(2025, 10, 1, 17, 45),
			want: domain.TierDueVerySoon,
		},
		{
			name: "due 17:45 evaluated 18:05 past cutoff is overdue",
			now:  at(2025, 10, 1, 18, 5),
			due:  at(2025, 10, 1, 17, 45),
			want: domain.TierOverdue,
		},
		{
			name: "due exactly now+30m stays due_soon",
			now:  at(2025, 10, 1, 17, 0),
			due:  at(2025, 10, 1, 17, 30),
			want: domain.TierDueSoon,
		},
		{
			name: "due one second inside the 30m window is due_very_soon",
			now:  at(2025, 10, 1, 17, 0).Add(time.Second),
			due:  at(2025, 10, 1, 17, 30),
			want: domain.TierDueVerySoon,
		},
		{
			name: "due exactly at today's cutoff before cutoff is due_soon",
			now:  at(2025, 10, 1, 9, 0),
			due:  at(2025, 10, 1, 18, 0),
			want: domain.TierDueSoon,
		},
		{
			name: "due yesterday 17:00 evaluated today 09:00 is overdue",
			now:  at(2025, 10, 2, 9, 0),
			due:  at(2025, 10, 1, 17, 0),
			want: domain.TierOverdue,
		},
		{
			name: "past due but before today's cutoff is not alerted yet",
			now:  at(2025, 10, 1, 17, 50),
			due:  at(2025, 10, 1, 17, 45),
			want: domain.TierNone,
		},
		{
			name: "exactly at cutoff still counts as today",
			now:  at(2025, 10, 1, 18, 0),
			due:  at(2025, 10, 1, 17, 45),
			want: domain.TierNone,
		},
		{
			name: "after cutoff the upper bound moves to tomorrow's cutoff",
			now:  at(2025, 10, 1, 18, 30),
			due:  at(2025, 10, 2, 10, 0),
			want: domain.TierDueSoon,
		},
		{
			name: "due after the next cutoff is not yet due soon",
			now:  at(2025, 10, 1, 10, 0),
			due:  at(2025, 10, 2, 19, 0),
			want: domain.TierNone,
		},
		{
			name: "due one minute from now is due_very_soon",
			now:  at(2025, 10, 1, 12, 0),
			due:  at(2025, 10, 1, 12, 1),
			want: domain.TierDueVerySoon,
		},
		{
			name: "due exactly now is not in the very-soon window",
			now:  at(2025, 10, 1, 12, 0),
			due:  at(2025, 10, 1, 12, 0),
			want: domain.TierNone,
		},
		{
			name: "overdue since last week past cutoff",
			now:  at(2025, 10, 1, 20, 0),
			due:  at(2025, 9, 24, 17, 0),
			want: domain.TierOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.now, tt.due)
			if got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.now, tt.due, got, tt.want)
			}
		})
	}
}
