package domain

import "strconv"

// AdminRoom is the shared room every admin-dashboard session joins.
const AdminRoom = "admins"

// Frame kinds pushed over the transport.
const (
	FrameNewNotification = "new_notification"
	FrameNewComment      = "new_comment"
	FrameCommentUpdated  = "comment_updated"
	FrameCommentDeleted  = "comment_deleted"
	FrameNewMessage      = "new_message"
	FrameMessagesRead    = "messages_read"
)

// Room name constructors. A room name alone determines its audience; callers
// never pass free-form room strings.

func UserRoom(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

func ItemRoom(itemID int64) string {
	return "item:" + strconv.FormatInt(itemID, 10)
}

func ConversationRoom(conversationID int64) string {
	return "conversation:" + strconv.FormatInt(conversationID, 10)
}
