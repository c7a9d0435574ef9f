package domain

// Tier is the escalation severity a loan occupies at a given instant.
// Tiers are ordered: a higher tier supersedes every lower one, and firing
// a higher tier closes out unread notifications of all lower tiers.
type Tier int

const (
	TierNone Tier = iota
	TierDueSoon
	TierDueVerySoon
	TierOverdue
)

func (t Tier) String() string {
	switch t {
	case TierDueSoon:
		return "due_soon"
	case TierDueVerySoon:
		return "due_very_soon"
	case TierOverdue:
		return "overdue_notice"
	default:
		return "none"
	}
}

// Tag returns the notification tag written for this tier, or "" for TierNone.
func (t Tier) Tag() Tag {
	switch t {
	case TierDueSoon:
		return TagDueSoon
	case TierDueVerySoon:
		return TagDueVerySoon
	case TierOverdue:
		return TagOverdueNotice
	default:
		return ""
	}
}

// Alertable reports whether the tier produces a notification at all.
func (t Tier) Alertable() bool {
	return t != TierNone
}

// Supersedes returns the tags of all strictly lower alertable tiers.
func (t Tier) Supersedes() []Tag {
	switch t {
	case TierDueVerySoon:
		return []Tag{TagDueSoon}
	case TierOverdue:
		return []Tag{TagDueSoon, TagDueVerySoon}
	default:
		return nil
	}
}
