package domain

import (
	"context"
	"time"
)

// PassRecord is the summary of one completed escalation pass, persisted to
// the operational results store for trend analysis.
type PassRecord struct {
	RunID              string
	StartedAt          time.Time
	Duration           time.Duration
	Evaluated          int
	Created            int
	Skipped            int
	DueSoonCreated     int
	DueVerySoonCreated int
	OverdueCreated     int
	Failed             bool
}

// PassRecorder receives pass summaries. Implementations must be safe to call
// from the scheduler goroutine and must not fail the pass itself.
type PassRecorder interface {
	RecordPass(ctx context.Context, rec PassRecord) error
	Close() error
}
