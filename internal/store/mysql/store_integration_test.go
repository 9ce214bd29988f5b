//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

func TestMySQLStoreIntegration(t *testing.T) {
	ctx := context.Background()
	dsn, cleanup := setupMySQLContainer(t, ctx)
	defer cleanup()

	dbConn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()

	store := New(dbConn, zap.NewNop())

	t.Run("notifications", func(t *testing.T) {
		userID := int64(7)
		created, err := store.CreateNotification(ctx, model.Notification{
			UserID:   &userID,
			ItemID:   9,
			ItemType: domain.ItemKindDonation,
			Message:  "donation approved",
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		broadcast, err := store.CreateNotification(ctx, model.Notification{
			ItemID:   3,
			ItemType: domain.ItemKindInNeed,
			Message:  "new request pending",
		})
		require.NoError(t, err)
		require.Nil(t, broadcast.UserID)

		personal, err := store.ListNotificationsForUser(ctx, userID, 10)
		require.NoError(t, err)
		require.Len(t, personal, 1)
		require.Equal(t, created.ID, personal[0].ID)
		require.False(t, personal[0].IsRead)

		admin, err := store.ListAdminNotifications(ctx, 10)
		require.NoError(t, err)
		require.Len(t, admin, 1)
		require.Equal(t, broadcast.ID, admin[0].ID)

		found, err := store.MarkNotificationRead(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)

		// Idempotent on the second call, false for an unknown id.
		found, err = store.MarkNotificationRead(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		found, err = store.MarkNotificationRead(ctx, 99999)
		require.NoError(t, err)
		require.False(t, found)

		personal, err = store.ListNotificationsForUser(ctx, userID, 10)
		require.NoError(t, err)
		require.True(t, personal[0].IsRead)
	})

	t.Run("conversation pair is unique", func(t *testing.T) {
		first, err := store.FindOrCreateConversation(ctx, 2, 1)
		require.NoError(t, err)
		second, err := store.FindOrCreateConversation(ctx, 1, 2)
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, int64(1), first.UserLow)
		require.Equal(t, int64(2), first.UserHigh)
	})

	t.Run("messages", func(t *testing.T) {
		conversation, err := store.FindOrCreateConversation(ctx, 1, 2)
		require.NoError(t, err)

		sent, err := store.CreateMessage(ctx, model.Message{
			ConversationID: conversation.ID,
			SenderID:       1,
			ReceiverID:     2,
			Text:           "hello",
		})
		require.NoError(t, err)
		require.NotZero(t, sent.ID)

		// CreateMessage denormalizes onto the conversation row.
		fresh, err := store.GetConversation(ctx, conversation.ID)
		require.NoError(t, err)
		require.Equal(t, "hello", fresh.LastMessage)

		transcript, err := store.ListMessages(ctx, conversation.ID)
		require.NoError(t, err)
		require.Len(t, transcript, 1)
		require.False(t, transcript[0].IsRead)

		// The sender cannot flip their own message.
		flipped, err := store.MarkMessagesRead(ctx, 1, []int64{sent.ID})
		require.NoError(t, err)
		require.Empty(t, flipped)

		flipped, err = store.MarkMessagesRead(ctx, 2, []int64{sent.ID})
		require.NoError(t, err)
		require.Equal(t, map[int64][]int64{conversation.ID: {sent.ID}}, flipped)

		transcript, err = store.ListMessages(ctx, conversation.ID)
		require.NoError(t, err)
		require.True(t, transcript[0].IsRead)

		list, err := store.ListConversationsForUser(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("comments", func(t *testing.T) {
		created, err := store.CreateComment(ctx, model.Comment{
			ItemID:   9,
			AuthorID: 1,
			Content:  "can I help?",
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		updated, err := store.UpdateComment(ctx, created.ID, 1, "edited")
		require.NoError(t, err)
		require.Equal(t, "edited", updated.Content)

		_, err = store.UpdateComment(ctx, created.ID, 2, "hijack")
		require.ErrorIs(t, err, domain.ErrForbidden)

		list, err := store.ListCommentsByItem(ctx, 9)
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, store.DeleteComment(ctx, created.ID, 1))
		require.ErrorIs(t, store.DeleteComment(ctx, created.ID, 1), domain.ErrNotFound)
	})
}
