package notify

import (
	"context"

	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/domain"
	"donation_hub/internal/model"
	"donation_hub/internal/repository"
)

// Service turns domain events into persisted notification rows and fans them
// out to the owning room. The row is the source of truth; the live push is a
// latency optimization and is only issued after the write commits.
type Service struct {
	store repository.NotificationRepository
	hub   *bus.Hub
	log   *zap.Logger
	limit int
}

func NewService(store repository.NotificationRepository, hub *bus.Hub, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, log: logger, limit: 100}
}

// Notify creates exactly one row and publishes it to the target user's
// personal room, or to the admin room when userID is nil. A target user with
// no live sessions gets the row and a no-op delivery.
func (s *Service) Notify(ctx context.Context, userID *int64, itemID int64, itemKind, message string) (model.Notification, error) {
	if !domain.IsValidItemKind(itemKind) {
		return model.Notification{}, domain.ErrInvalidItemKind
	}
	created, err := s.store.CreateNotification(ctx, model.Notification{
		UserID:   userID,
		ItemID:   itemID,
		ItemType: itemKind,
		Message:  message,
	})
	if err != nil {
		s.log.Error("store create notification failed",
			zap.Int64("item_id", itemID),
			zap.String("item_kind", itemKind),
			zap.Error(err),
		)
		return model.Notification{}, err
	}

	room := domain.AdminRoom
	if userID != nil {
		room = domain.UserRoom(*userID)
	}
	s.hub.Publish(room, model.Frame{Kind: domain.FrameNewNotification, Payload: created})
	return created, nil
}

// MarkRead is idempotent; an unknown id is ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	found, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		s.log.Error("store mark notification read failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// MarkReadForItems flips unread chat notifications whose item id (the message
// id) is in the set. Called when a chat thread is opened so the unread badge
// and the message read flags never disagree.
func (s *Service) MarkReadForItems(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := s.store.MarkNotificationsReadByItems(ctx, domain.ItemKindMessage, itemIDs)
	if err != nil {
		s.log.Error("store mark notifications read by items failed", zap.Error(err))
	}
	return err
}

// ListForUser is the authoritative snapshot a client fetches on (re)connect,
// newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	list, err := s.store.ListNotificationsForUser(ctx, userID, s.limit)
	if err != nil {
		s.log.Error("store list notifications failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// ListForAdmins returns cohort notifications (rows with no target user).
func (s *Service) ListForAdmins(ctx context.Context) ([]model.Notification, error) {
	list, err := s.store.ListAdminNotifications(ctx, s.limit)
	if err != nil {
		s.log.Error("store list admin notifications failed", zap.Error(err))
		return nil, err
	}
	return list, nil
}
