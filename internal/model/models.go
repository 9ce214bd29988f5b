package model

import "time"

// Notification is the durable record of a domain event directed at one user,
// or at the admin cohort when UserID is nil.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	ItemID    int64     `json:"item_id"`
	ItemType  string    `json:"item_type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the unique thread between an unordered pair of users.
// UserLow < UserHigh always; the pair is normalized before storage.
type Conversation struct {
	ID            int64     `json:"id"`
	UserLow       int64     `json:"user_low"`
	UserHigh      int64     `json:"user_high"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
}

func (c Conversation) HasParticipant(userID int64) bool {
	return c.UserLow == userID || c.UserHigh == userID
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	ReceiverID     int64     `json:"receiver_id"`
	Text           string    `json:"text"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Frame is the envelope pushed to live sessions.
type Frame struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}
