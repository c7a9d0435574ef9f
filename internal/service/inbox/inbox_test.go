package inbox

import (
	"context"
	"testing"
	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
	"github.com/nonthaphat-dev/lendwatch/internal/testutil"
)

func TestRenderTemplateTable(t *testing.T) {
	tests := []struct {
		name         string
		tag          domain.Tag
		wantSeverity Severity
		wantTitle    string
	}{
		{name: "due_soon renders warning", tag: domain.TagDueSoon, wantSeverity: SeverityWarning, wantTitle: "Equipment due back soon"},
		{name: "due_very_soon renders warning", tag: domain.TagDueVerySoon, wantSeverity: SeverityWarning, wantTitle: "Due back within 30 minutes"},
		{name: "overdue_notice renders danger", tag: domain.TagOverdueNotice, wantSeverity: SeverityDanger, wantTitle: "Equipment overdue"},
		{name: "unknown tag falls back to generic reminder", tag: domain.Tag("maintenance_notice"), wantSeverity: SeverityInfo, wantTitle: "Reminder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &domain.Notification{
				ID:  3,
				Tag: tt.tag,
				Payload: domain.NotificationPayload{
					EquipmentID:   7,
					EquipmentName: "Microphone",
					DueDate:       "2025-10-01 17:45",
					Message:       "Please return Microphone.",
				},
				Status:    domain.NotificationUnread,
				CreatedAt: time.Date(2025, 10, 1, 17, 0, 0, 0, time.UTC),
			}

			got := Render(n)
			if got.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Body != "Please return Microphone." {
				t.Errorf("body = %q", got.Body)
			}
		})
	}
}

func TestRenderFallbackBodyFromPayload(t *testing.T) {
	n := &domain.Notification{
		Tag: domain.TagDueSoon,
		Payload: domain.NotificationPayload{
			EquipmentName: "Microphone",
			DueDate:       "2025-10-01 17:45",
		},
	}

	got := Render(n)
	want := "Please return Microphone before 18:00 (due 2025-10-01 17:45)."
	if got.Body != want {
		t.Errorf("body = %q, want %q", got.Body, want)
	}
}

func TestListFiltersAndLimits(t *testing.T) {
	db := testutil.NewMemDB()
	stores := db.Stores()
	ctx := context.Background()

	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		status := domain.NotificationUnread
		if i == 0 {
			status = domain.NotificationRead
		}
		err := stores.Notifications.Create(ctx, &domain.Notification{
			RecipientID: 42,
			Tag:         domain.TagDueSoon,
			Status:      status,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	svc := NewService(stores.Notifications)

	unread, err := svc.List(ctx, 42, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(unread) != 10 {
		t.Errorf("unread list length = %d, want 10 (capped)", len(unread))
	}
	for _, r := range unread {
		if r.Status != string(domain.NotificationUnread) {
			t.Errorf("unexpected read notification %d in unread list", r.ID)
		}
	}

	all, err := svc.List(ctx, 42, true)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 12 {
		t.Errorf("full list length = %d, want 12", len(all))
	}
}

func TestDismissScopedToRecipient(t *testing.T) {
	db := testutil.NewMemDB()
	stores := db.Stores()
	ctx := context.Background()

	err := stores.Notifications.Create(ctx, &domain.Notification{
		RecipientID: 42,
		Tag:         domain.TagOverdueNotice,
		Status:      domain.NotificationUnread,
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	svc := NewService(stores.Notifications)

	if err := svc.Dismiss(ctx, 1, 99); err != domain.ErrNotificationNotFound {
		t.Errorf("dismiss by wrong recipient: err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.Dismiss(ctx, 1, 42); err != nil {
		t.Errorf("dismiss by owner: %v", err)
	}
	if db.Notifications[0].Status != domain.NotificationRead {
		t.Errorf("notification not marked read")
	}
}
