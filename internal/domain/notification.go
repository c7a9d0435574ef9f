package domain

import (
	"time"
)

// Tag identifies the template of a notification.
type Tag string

const (
	TagDueSoon       Tag = "due_soon"
	TagDueVerySoon   Tag = "due_very_soon"
	TagOverdueNotice Tag = "overdue_notice"
)

func (t Tag) String() string {
	return string(t)
}

// ChannelSystem marks notifications created by the escalation engine itself,
// as opposed to ones injected through other delivery channels.
const ChannelSystem = "system"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// NotificationPayload is the structured body of an alert. The equipment
// reference lives in a typed field so idempotency lookups are exact matches,
// never substring probes against serialized JSON.
type NotificationPayload struct {
	EquipmentID   int64  `json:"equipment_id"`
	EquipmentName string `json:"equipment_name"`
	DueDate       string `json:"due_date"`
	Message       string `json:"message"`
}

// Notification is one alert instance for one recipient.
type Notification struct {
	ID          int64
	RecipientID int64
	Channel     string
	Tag         Tag
	Payload     NotificationPayload
	CreatedAt   time.Time
	Status      NotificationStatus
}

func (n *Notification) Unread() bool {
	return n.Status == NotificationUnread
}
