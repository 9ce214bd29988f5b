package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"donation_hub/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, item_id, item_type, message, is_read, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		notification.UserID, notification.ItemID, notification.ItemType,
		notification.Message, notification.CreatedAt,
	)
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.Int64("item_id", notification.ItemID),
			zap.String("item_type", notification.ItemType),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sql last insert id failed", zap.Error(err))
		return model.Notification{}, err
	}
	notification.ID = id
	return notification, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		s.log.Error("sql mark notification read failed", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}
	// Marking an already-read row affects nothing; distinguish that from a
	// missing id.
	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM notifications WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) MarkNotificationsReadByItems(ctx context.Context, itemKind string, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	args := append([]any{itemKind}, int64Args(itemIDs)...)
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1
		 WHERE is_read = 0 AND item_type = ? AND item_id IN (`+placeholders(len(itemIDs))+`)`,
		args...,
	)
	if err != nil {
		s.log.Error("sql mark notifications read by items failed",
			zap.String("item_type", itemKind), zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) ListNotificationsForUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, item_id, item_type, message, is_read, created_at
		 FROM notifications WHERE user_id = ?
		 ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		s.log.Error("sql list notifications failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (s *Store) ListAdminNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, item_id, item_type, message, is_read, created_at
		 FROM notifications WHERE user_id IS NULL
		 ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		s.log.Error("sql list admin notifications failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

type notificationRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanNotifications(rows notificationRows) ([]model.Notification, error) {
	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ItemID, &n.ItemType, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
