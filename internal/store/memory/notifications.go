package memory

import (
	"context"
	"time"

	"donation_hub/internal/model"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification.ID = s.nextNotificationID
	s.nextNotificationID++
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	s.notifications = append(s.notifications, notification)
	return notification, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MarkNotificationsReadByItems(_ context.Context, itemKind string, itemIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var flipped int64
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.IsRead || n.ItemType != itemKind {
			continue
		}
		if _, ok := wanted[n.ItemID]; !ok {
			continue
		}
		n.IsRead = true
		flipped++
	}
	return flipped, nil
}

func (s *Store) ListNotificationsForUser(_ context.Context, userID int64, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID == nil || *n.UserID != userID {
			continue
		}
		result = append(result, n)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) ListAdminNotifications(_ context.Context, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != nil {
			continue
		}
		result = append(result, n)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
