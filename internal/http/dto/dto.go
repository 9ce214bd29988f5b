package dto

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventRequest is the notify() seam exposed to CRUD collaborators: a domain
// action that just committed reports itself here.
type EventRequest struct {
	UserID   *int64 `json:"user_id,omitempty"`
	ItemID   int64  `json:"item_id"`
	ItemKind string `json:"item_kind"`
	Message  string `json:"message"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	// OwnerID is the item owner's id when the caller knows it; the owner is
	// notified unless they authored the comment themselves.
	OwnerID int64 `json:"owner_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Text       string `json:"text,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type MarkMessagesReadRequest struct {
	MessageIDs []int64 `json:"message_ids"`
}

type MarkItemsReadRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

// Command is a client-to-server websocket frame.
type Command struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}
