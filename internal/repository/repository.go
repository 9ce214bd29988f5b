package repository

import (
	"context"

	"donation_hub/internal/model"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	// MarkNotificationRead reports whether the id exists; marking an
	// already-read notification succeeds.
	MarkNotificationRead(ctx context.Context, id int64) (bool, error)
	// MarkNotificationsReadByItems flips unread notifications of the given
	// kind whose item id is in the set. Returns the number flipped.
	MarkNotificationsReadByItems(ctx context.Context, itemKind string, itemIDs []int64) (int64, error)
	ListNotificationsForUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	ListAdminNotifications(ctx context.Context, limit int) ([]model.Notification, error)
}

type ChatRepository interface {
	// FindOrCreateConversation returns the unique conversation for the
	// unordered {a,b} pair, creating it if absent.
	FindOrCreateConversation(ctx context.Context, a, b int64) (model.Conversation, error)
	GetConversation(ctx context.Context, id int64) (model.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID int64) ([]model.Conversation, error)
	// CreateMessage persists the message and denormalizes last message/time
	// onto its conversation.
	CreateMessage(ctx context.Context, message model.Message) (model.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error)
	// MarkMessagesRead flips messages addressed to readerID and returns the
	// ids actually flipped, grouped under their conversation.
	MarkMessagesRead(ctx context.Context, readerID int64, messageIDs []int64) (map[int64][]int64, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	UpdateComment(ctx context.Context, id, authorID int64, content string) (model.Comment, error)
	DeleteComment(ctx context.Context, id, authorID int64) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]model.Comment, error)
}
