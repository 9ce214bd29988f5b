package chat

import (
	"context"

	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/domain"
	"donation_hub/internal/model"
	"donation_hub/internal/repository"
	"donation_hub/internal/service/notify"
)

const previewLimit = 120

type Service struct {
	store  repository.ChatRepository
	hub    *bus.Hub
	notify *notify.Service
	log    *zap.Logger
}

func NewService(store repository.ChatRepository, hub *bus.Hub, notifier *notify.Service, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, notify: notifier, log: logger}
}

// Send finds or creates the unique conversation for the pair, persists the
// message, then echoes it into the conversation room and notifies the
// receiver. Nothing is published if the write fails.
func (s *Service) Send(ctx context.Context, senderID, receiverID int64, text, imageURL string) (model.Message, error) {
	if text == "" && imageURL == "" {
		return model.Message{}, domain.ErrEmptyContent
	}

	conversation, err := s.store.FindOrCreateConversation(ctx, senderID, receiverID)
	if err != nil {
		s.log.Error("store find or create conversation failed",
			zap.Int64("sender_id", senderID),
			zap.Int64("receiver_id", receiverID),
			zap.Error(err),
		)
		return model.Message{}, err
	}

	message, err := s.store.CreateMessage(ctx, model.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Text:           text,
		ImageURL:       imageURL,
	})
	if err != nil {
		s.log.Error("store create message failed",
			zap.Int64("conversation_id", conversation.ID), zap.Error(err))
		return model.Message{}, err
	}

	s.hub.Publish(domain.ConversationRoom(conversation.ID),
		model.Frame{Kind: domain.FrameNewMessage, Payload: message})

	if _, err := s.notify.Notify(ctx, &receiverID, message.ID, domain.ItemKindMessage, preview(text)); err != nil {
		// The message is persisted and echoed; a failed unread record is
		// logged, not surfaced as a failed send.
		s.log.Warn("message notification failed", zap.Int64("message_id", message.ID), zap.Error(err))
	}
	return message, nil
}

// MarkRead flips message read flags for the reader and keeps the reader's
// notification badge in sync, then echoes a read receipt into each affected
// conversation room.
func (s *Service) MarkRead(ctx context.Context, readerID int64, messageIDs []int64) error {
	flipped, err := s.store.MarkMessagesRead(ctx, readerID, messageIDs)
	if err != nil {
		s.log.Error("store mark messages read failed", zap.Int64("reader_id", readerID), zap.Error(err))
		return err
	}

	var all []int64
	for _, ids := range flipped {
		all = append(all, ids...)
	}
	if len(all) == 0 {
		return nil
	}
	if err := s.notify.MarkReadForItems(ctx, all); err != nil {
		return err
	}

	for conversationID, ids := range flipped {
		s.hub.Publish(domain.ConversationRoom(conversationID), model.Frame{
			Kind: domain.FrameMessagesRead,
			Payload: map[string]any{
				"conversation_id": conversationID,
				"message_ids":     ids,
				"reader_id":       readerID,
			},
		})
	}
	return nil
}

// Messages returns the conversation transcript, oldest first. Only
// participants may read it.
func (s *Service) Messages(ctx context.Context, requesterID, conversationID int64) ([]model.Message, error) {
	conversation, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(requesterID) {
		return nil, domain.ErrForbidden
	}
	return s.store.ListMessages(ctx, conversationID)
}

func (s *Service) Conversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	list, err := s.store.ListConversationsForUser(ctx, userID)
	if err != nil {
		s.log.Error("store list conversations failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// IsParticipant is the room-join check for conversation rooms.
func (s *Service) IsParticipant(ctx context.Context, userID, conversationID int64) (bool, error) {
	conversation, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return conversation.HasParticipant(userID), nil
}

func preview(text string) string {
	if len(text) > previewLimit {
		return text[:previewLimit]
	}
	if text == "" {
		return "sent you an image"
	}
	return text
}
