package comment

import (
	"context"

	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/domain"
	"donation_hub/internal/model"
	"donation_hub/internal/repository"
	"donation_hub/internal/service/notify"
)

type Service struct {
	store  repository.CommentRepository
	hub    *bus.Hub
	notify *notify.Service
	log    *zap.Logger
}

func NewService(store repository.CommentRepository, hub *bus.Hub, notifier *notify.Service, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, notify: notifier, log: logger}
}

// Create persists the comment, echoes it to every session viewing the item,
// and notifies the item owner unless the owner wrote it. ownerID zero means
// the caller does not know the owner and no notification is sent. The persist
// must succeed before anything is published.
func (s *Service) Create(ctx context.Context, itemID, authorID, ownerID int64, content string) (model.Comment, error) {
	if content == "" {
		return model.Comment{}, domain.ErrEmptyContent
	}
	created, err := s.store.CreateComment(ctx, model.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Content:  content,
	})
	if err != nil {
		s.log.Error("store create comment failed", zap.Int64("item_id", itemID), zap.Error(err))
		return model.Comment{}, err
	}

	s.hub.Publish(domain.ItemRoom(itemID),
		model.Frame{Kind: domain.FrameNewComment, Payload: created})

	if ownerID != 0 && ownerID != authorID {
		if _, err := s.notify.Notify(ctx, &ownerID, itemID, domain.ItemKindComment, "New comment on your request"); err != nil {
			s.log.Warn("comment notification failed", zap.Int64("comment_id", created.ID), zap.Error(err))
		}
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id, authorID int64, content string) (model.Comment, error) {
	if content == "" {
		return model.Comment{}, domain.ErrEmptyContent
	}
	updated, err := s.store.UpdateComment(ctx, id, authorID, content)
	if err != nil {
		return model.Comment{}, err
	}
	s.hub.Publish(domain.ItemRoom(updated.ItemID),
		model.Frame{Kind: domain.FrameCommentUpdated, Payload: updated})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, authorID int64) error {
	// Fetch first: after a successful delete the item room can no longer be
	// derived from the row.
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, id, authorID); err != nil {
		return err
	}
	s.hub.Publish(domain.ItemRoom(comment.ItemID), model.Frame{
		Kind:    domain.FrameCommentDeleted,
		Payload: map[string]int64{"id": id, "item_id": comment.ItemID},
	})
	return nil
}

func (s *Service) ListForItem(ctx context.Context, itemID int64) ([]model.Comment, error) {
	list, err := s.store.ListCommentsByItem(ctx, itemID)
	if err != nil {
		s.log.Error("store list comments failed", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, err
	}
	return list, nil
}
