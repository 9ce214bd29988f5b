package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

const mysqlErrDuplicateEntry = 1062

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

func (s *Store) FindOrCreateConversation(ctx context.Context, a, b int64) (model.Conversation, error) {
	low, high := orderPair(a, b)

	conversation, err := s.getConversationByPair(ctx, low, high)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_low, user_high, last_message, last_message_at)
		 VALUES (?, ?, '', ?)`,
		low, high, time.Now().UTC(),
	)
	if err != nil {
		// Two first messages racing past the SELECT: the unique key on
		// (user_low, user_high) rejects the second insert, so re-read.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return s.getConversationByPair(ctx, low, high)
		}
		s.log.Error("sql create conversation failed",
			zap.Int64("user_low", low), zap.Int64("user_high", high), zap.Error(err))
		return model.Conversation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Conversation{}, err
	}
	return model.Conversation{ID: id, UserLow: low, UserHigh: high}, nil
}

func (s *Store) getConversationByPair(ctx context.Context, low, high int64) (model.Conversation, error) {
	var c model.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_low, user_high, last_message, last_message_at
		 FROM conversations WHERE user_low = ? AND user_high = ?`,
		low, high,
	).Scan(&c.ID, &c.UserLow, &c.UserHigh, &c.LastMessage, &c.LastMessageAt)
	return c, err
}

func (s *Store) GetConversation(ctx context.Context, id int64) (model.Conversation, error) {
	var c model.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_low, user_high, last_message, last_message_at
		 FROM conversations WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.UserLow, &c.UserHigh, &c.LastMessage, &c.LastMessageAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, domain.ErrNotFound
	}
	if err != nil {
		s.log.Error("sql get conversation failed", zap.Int64("id", id), zap.Error(err))
		return model.Conversation{}, err
	}
	return c, nil
}

func (s *Store) ListConversationsForUser(ctx context.Context, userID int64) ([]model.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_low, user_high, last_message, last_message_at
		 FROM conversations WHERE user_low = ? OR user_high = ?
		 ORDER BY last_message_at DESC`,
		userID, userID,
	)
	if err != nil {
		s.log.Error("sql list conversations failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.UserLow, &c.UserHigh, &c.LastMessage, &c.LastMessageAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) CreateMessage(ctx context.Context, message model.Message) (model.Message, error) {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Message{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var imageURL *string
	if message.ImageURL != "" {
		imageURL = &message.ImageURL
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, receiver_id, text, image_url, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		message.ConversationID, message.SenderID, message.ReceiverID,
		message.Text, imageURL, message.CreatedAt,
	)
	if err != nil {
		s.log.Error("sql create message failed",
			zap.Int64("conversation_id", message.ConversationID), zap.Error(err))
		return model.Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message = ?, last_message_at = ? WHERE id = ?`,
		message.Text, message.CreatedAt, message.ConversationID,
	); err != nil {
		s.log.Error("sql touch conversation failed",
			zap.Int64("conversation_id", message.ConversationID), zap.Error(err))
		return model.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Message{}, err
	}
	message.ID = id
	return message, nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender_id, receiver_id, text, image_url, is_read, created_at
		 FROM messages WHERE conversation_id = ?
		 ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		s.log.Error("sql list messages failed", zap.Int64("conversation_id", conversationID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []model.Message
	for rows.Next() {
		var m model.Message
		var imageURL sql.NullString
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Text, &imageURL, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ImageURL = imageURL.String
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) MarkMessagesRead(ctx context.Context, readerID int64, messageIDs []int64) (map[int64][]int64, error) {
	flipped := make(map[int64][]int64)
	if len(messageIDs) == 0 {
		return flipped, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	args := append([]any{readerID}, int64Args(messageIDs)...)
	rows, err := tx.QueryContext(ctx,
		`SELECT id, conversation_id FROM messages
		 WHERE receiver_id = ? AND is_read = 0 AND id IN (`+placeholders(len(messageIDs))+`)
		 FOR UPDATE`,
		args...,
	)
	if err != nil {
		s.log.Error("sql select unread messages failed", zap.Int64("reader_id", readerID), zap.Error(err))
		return nil, err
	}
	var ids []int64
	for rows.Next() {
		var id, conversationID int64
		if err := rows.Scan(&id, &conversationID); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		flipped[conversationID] = append(flipped[conversationID], id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return flipped, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...,
	); err != nil {
		s.log.Error("sql mark messages read failed", zap.Int64("reader_id", readerID), zap.Error(err))
		return nil, err
	}
	return flipped, tx.Commit()
}
