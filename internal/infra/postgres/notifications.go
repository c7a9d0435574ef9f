package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

type notificationStore struct {
	db  querier
	loc *time.Location
}

// Create inserts the notification and fills in the generated ID. The
// equipment reference is written both into the payload and into its own
// column; the column is what the idempotency and supersede queries match on.
func (s *notificationStore) Create(ctx context.Context, n *domain.Notification) error {
	payload, err := jsonCodec.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	sql, args, err := builder.
		Insert(tableNotifications).
		Rows(goqu.Record{
			"recipient_id": n.RecipientID,
			"channel":      n.Channel,
			"tag":          n.Tag.String(),
			"equipment_id": n.Payload.EquipmentID,
			"payload":      payload,
			"status":       string(n.Status),
			"created_at":   toCivil(n.CreatedAt, s.loc),
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build notification insert: %w", err)
	}

	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n.ID); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func (s *notificationStore) ExistsInWindow(ctx context.Context, recipientID int64, tag domain.Tag, equipmentID int64, from, to time.Time) (bool, error) {
	sql, args, err := builder.
		From(tableNotifications).
		Select(goqu.L("1")).
		Where(
			goqu.C("recipient_id").Eq(recipientID),
			goqu.C("tag").Eq(tag.String()),
			goqu.C("equipment_id").Eq(equipmentID),
			goqu.C("created_at").Gte(toCivil(from, s.loc)),
			goqu.C("created_at").Lt(toCivil(to, s.loc)),
		).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("failed to build notification window query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to query notification window: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to read notification window rows: %w", err)
	}

	return exists, nil
}

func (s *notificationStore) MarkTagsRead(ctx context.Context, recipientID, equipmentID int64, tags []domain.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	tagNames := make([]string, len(tags))
	for i, tag := range tags {
		tagNames[i] = tag.String()
	}

	sql, args, err := builder.
		Update(tableNotifications).
		Set(goqu.Record{"status": string(domain.NotificationRead)}).
		Where(
			goqu.C("recipient_id").Eq(recipientID),
			goqu.C("equipment_id").Eq(equipmentID),
			goqu.C("tag").In(tagNames),
			goqu.C("status").Eq(string(domain.NotificationUnread)),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build supersede update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (s *notificationStore) ListForRecipient(ctx context.Context, recipientID int64, includeRead bool, limit int) ([]domain.Notification, error) {
	stmt := builder.
		From(tableNotifications).
		Select("id", "recipient_id", "channel", "tag", "payload", "status", "created_at").
		Where(goqu.C("recipient_id").Eq(recipientID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())

	if !includeRead {
		stmt = stmt.Where(goqu.C("status").Eq(string(domain.NotificationUnread)))
	}
	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}

	sql, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build notification list query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			tagText   string
			payload   []byte
			status    string
			createdAt time.Time
		)

		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Channel, &tagText, &payload, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		if err := jsonCodec.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload of notification %d: %w", n.ID, err)
		}

		n.Tag = domain.Tag(tagText)
		n.Status = domain.NotificationStatus(status)
		n.CreatedAt = fromCivil(createdAt, s.loc)

		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notification rows: %w", err)
	}

	return notifications, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, id, recipientID int64) error {
	sql, args, err := builder.
		Update(tableNotifications).
		Set(goqu.Record{"status": string(domain.NotificationRead)}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("recipient_id").Eq(recipientID),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build dismiss update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to dismiss notification %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
