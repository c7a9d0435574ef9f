package inbox

import (
	"fmt"

	"github.com/nonthaphat-dev/lendwatch/internal/clock"
	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

// Severity is the display level a template renders at.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

type template struct {
	Title    string
	Severity Severity
	Icon     string
}

// templates maps a notification tag to its display treatment. Unknown tags
// fall back to the generic reminder template.
var templates = map[domain.Tag]template{
	domain.TagDueSoon: {
		Title:    "Equipment due back soon",
		Severity: SeverityWarning,
		Icon:     "time",
	},
	domain.TagDueVerySoon: {
		Title:    "Due back within 30 minutes",
		Severity: SeverityWarning,
		Icon:     "alarm-warning",
	},
	domain.TagOverdueNotice: {
		Title:    "Equipment overdue",
		Severity: SeverityDanger,
		Icon:     "error-warning",
	},
}

var fallbackTemplate = template{
	Title:    "Reminder",
	Severity: SeverityInfo,
	Icon:     "notification",
}

// Rendered is one inbox entry ready for display.
type Rendered struct {
	ID        int64    `json:"id"`
	Tag       string   `json:"tag"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Severity  Severity `json:"severity"`
	Icon      string   `json:"icon"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
}

const createdAtLayout = "2006-01-02 15:04"

// Render derives the display form of a notification from its tag and payload.
func Render(n *domain.Notification) Rendered {
	tpl, ok := templates[n.Tag]
	if !ok {
		tpl = fallbackTemplate
	}

	body := n.Payload.Message
	if body == "" {
		body = fmt.Sprintf("Please return %s before %02d:00 (due %s).",
			n.Payload.EquipmentName, clock.CutoffHour, n.Payload.DueDate)
	}

	return Rendered{
		ID:        n.ID,
		Tag:       n.Tag.String(),
		Title:     tpl.Title,
		Body:      body,
		Severity:  tpl.Severity,
		Icon:      tpl.Icon,
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt.Format(createdAtLayout),
	}
}
