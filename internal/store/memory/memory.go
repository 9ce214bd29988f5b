package memory

import (
	"sync"

	"go.uber.org/zap"

	"donation_hub/internal/model"
)

// Store keeps everything in process memory. It backs unit and e2e tests and
// is the fallback when no MySQL DSN is configured.
type Store struct {
	mu sync.Mutex

	nextNotificationID int64
	notifications      []model.Notification

	nextConversationID int64
	conversations      []model.Conversation

	nextMessageID int64
	messages      []model.Message

	nextCommentID int64
	comments      []model.Comment

	log *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		nextNotificationID: 1,
		nextConversationID: 1,
		nextMessageID:      1,
		nextCommentID:      1,
		log:                logger,
	}
}
