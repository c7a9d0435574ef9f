package tier

import (
	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/clock"
	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

// DueVerySoonWindow is the width of the last-call window before a due
// timestamp. A loan due in exactly this much time is still due_soon; the
// very-soon tier starts strictly inside the window.
const DueVerySoonWindow = 30 * time.Minute

// Classifier maps a loan's time-to-due, relative to one "now" snapshot and
// the daily 18:00 cutoff, to at most one escalation tier. It is a pure
// function of the two timestamps; both must carry the service timezone.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify decides which tier the loan occupies at now.
//
//   - overdue_notice: today's cutoff has passed and the due timestamp is at
//     or before it, or the cutoff has not passed but the loan was already
//     overdue before today began.
//   - due_very_soon: due in less than DueVerySoonWindow, but not yet due.
//   - due_soon: due in DueVerySoonWindow or more, at or before the next
//     applicable cutoff (today's if not passed, otherwise tomorrow's).
//   - none: everything else.
func (c *Classifier) Classify(now, due time.Time) domain.Tier {
	cutoff := clock.CutoffOn(now)

	if now.After(cutoff) {
		if !due.After(cutoff) {
			return domain.TierOverdue
		}
	} else if due.Before(clock.StartOfDay(now)) {
		return domain.TierOverdue
	}

	remaining := due.Sub(now)
	switch {
	case remaining > 0 && remaining < DueVerySoonWindow:
		return domain.TierDueVerySoon
	case remaining >= DueVerySoonWindow && !due.After(clock.NextCutoff(now)):
		return domain.TierDueSoon
	default:
		return domain.TierNone
	}
}
