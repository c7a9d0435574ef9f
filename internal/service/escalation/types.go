package escalation

import (
	"fmt"
	"time"
)

// Result summarizes one escalation pass.
type Result struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"-"`

	Evaluated int `json:"evaluated"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`

	DueSoonCreated     int `json:"due_soon_created"`
	DueVerySoonCreated int `json:"due_very_soon_created"`
	OverdueCreated     int `json:"overdue_created"`

	SupersededClosed int64 `json:"superseded_closed"`
}

// Summary renders the operator-facing one-liner returned by the manual
// trigger endpoint.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"escalation pass %s: evaluated %d loans, created %d notifications (%d due_soon, %d due_very_soon, %d overdue_notice), skipped %d same-day duplicates, closed %d superseded",
		r.RunID, r.Evaluated, r.Created,
		r.DueSoonCreated, r.DueVerySoonCreated, r.OverdueCreated,
		r.Skipped, r.SupersededClosed,
	)
}
