package memory

import (
	"context"
	"sort"
	"time"

	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

func (s *Store) FindOrCreateConversation(_ context.Context, a, b int64) (model.Conversation, error) {
	low, high := orderPair(a, b)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.UserLow == low && c.UserHigh == high {
			return c, nil
		}
	}
	conversation := model.Conversation{
		ID:       s.nextConversationID,
		UserLow:  low,
		UserHigh: high,
	}
	s.nextConversationID++
	s.conversations = append(s.conversations, conversation)
	return conversation, nil
}

func (s *Store) GetConversation(_ context.Context, id int64) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Conversation{}, domain.ErrNotFound
}

func (s *Store) ListConversationsForUser(_ context.Context, userID int64) ([]model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Conversation
	for _, c := range s.conversations {
		if c.HasParticipant(userID) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastMessageAt.After(result[j].LastMessageAt)
	})
	return result, nil
}

func (s *Store) CreateMessage(_ context.Context, message model.Message) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message.ID = s.nextMessageID
	s.nextMessageID++
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, message)
	for i := range s.conversations {
		if s.conversations[i].ID == message.ConversationID {
			s.conversations[i].LastMessage = message.Text
			s.conversations[i].LastMessageAt = message.CreatedAt
			break
		}
	}
	return message, nil
}

func (s *Store) ListMessages(_ context.Context, conversationID int64) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *Store) MarkMessagesRead(_ context.Context, readerID int64, messageIDs []int64) (map[int64][]int64, error) {
	wanted := make(map[int64]struct{}, len(messageIDs))
	for _, id := range messageIDs {
		wanted[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	flipped := make(map[int64][]int64)
	for i := range s.messages {
		m := &s.messages[i]
		if m.IsRead || m.ReceiverID != readerID {
			continue
		}
		if _, ok := wanted[m.ID]; !ok {
			continue
		}
		m.IsRead = true
		flipped[m.ConversationID] = append(flipped[m.ConversationID], m.ID)
	}
	return flipped, nil
}
