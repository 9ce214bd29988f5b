package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donation_hub/internal/auth"
	"donation_hub/internal/bus"
	"donation_hub/internal/config"
	"donation_hub/internal/domain"
	httpserver "donation_hub/internal/http"
	"donation_hub/internal/http/controller"
	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/resp"
	"donation_hub/internal/metrics"
	"donation_hub/internal/model"
	"donation_hub/internal/service/chat"
	"donation_hub/internal/service/comment"
	"donation_hub/internal/service/notify"
	"donation_hub/internal/store/memory"
)

const testSecret = "test-secret"

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, payload []byte, routingKey string) error {
	args := m.Called(ctx, payload, routingKey)
	return args.Error(0)
}

type env struct {
	router *gin.Engine
	store  *memory.Store
	notify *notify.Service
	pub    *publisherMock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.New()
	cfg.JWTSecret = testSecret

	logger := zap.NewNop()
	store := memory.New(logger)
	hub := bus.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	notifier := notify.NewService(store, hub, logger)
	chatSvc := chat.NewService(store, hub, notifier, logger)
	commentSvc := comment.NewService(store, hub, notifier, logger)
	pub := &publisherMock{}
	handler := controller.NewHandler(cfg, notifier, chatSvc, commentSvc, hub, logger, pub)
	router := httpserver.NewRouter(cfg, handler, metrics.New(), logger)

	return &env{router: router, store: store, notify: notifier, pub: pub}
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	rec := doJSON(t, e.router, http.MethodGet, "/api/notifications", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e.router, http.MethodGet, "/api/notifications", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationSnapshot(t *testing.T) {
	e := newEnv(t)
	userID := int64(7)
	_, err := e.notify.Notify(context.Background(), &userID, 9, domain.ItemKindDonation, "approved")
	require.NoError(t, err)

	rec := doJSON(t, e.router, http.MethodGet, "/api/notifications", token(t, 7, "user"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []model.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.False(t, list[0].IsRead)

	// Another user's snapshot stays empty.
	rec = doJSON(t, e.router, http.MethodGet, "/api/notifications", token(t, 8, "user"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestMarkNotificationRead(t *testing.T) {
	e := newEnv(t)
	userID := int64(7)
	created, err := e.notify.Notify(context.Background(), &userID, 9, domain.ItemKindDonation, "approved")
	require.NoError(t, err)
	path := fmt.Sprintf("/api/notifications/%d/read", created.ID)

	rec := doJSON(t, e.router, http.MethodPut, path, token(t, 7, "user"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Marking twice stays OK; marking a missing id is a 404.
	rec = doJSON(t, e.router, http.MethodPut, path, token(t, 7, "user"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, e.router, http.MethodPut, "/api/notifications/404/read", token(t, 7, "user"), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminOnlyEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := doJSON(t, e.router, http.MethodGet, "/api/admin/notifications", token(t, 7, "user"), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e.router, http.MethodGet, "/api/admin/notifications", token(t, 1, auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateEvent(t *testing.T) {
	e := newEnv(t)
	admin := token(t, 1, auth.RoleAdmin)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, e.router, http.MethodPost, "/api/events", admin, dto.EventRequest{
			ItemID:   9,
			ItemKind: domain.ItemKindInNeed,
			Message:  "new request pending",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created model.Notification
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.NotZero(t, created.ID)
		require.Nil(t, created.UserID)
	})

	t.Run("invalid kind", func(t *testing.T) {
		rec := doJSON(t, e.router, http.MethodPost, "/api/events", admin, dto.EventRequest{
			ItemID:   9,
			ItemKind: "bad",
			Message:  "x",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, e.router, http.MethodPost, "/api/events", admin, map[string]any{"item_id": 9})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPublishEvent(t *testing.T) {
	e := newEnv(t)
	admin := token(t, 1, auth.RoleAdmin)

	e.pub.On("Publish", mock.Anything, mock.Anything, "event."+domain.ItemKindDonation).Return(nil).Once()

	rec := doJSON(t, e.router, http.MethodPost, "/api/events/publish", admin, dto.EventRequest{
		ItemID:   9,
		ItemKind: domain.ItemKindDonation,
		Message:  "approved",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var status dto.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, resp.CodeQueued, status.Code)
	e.pub.AssertExpectations(t)

	var payload dto.EventRequest
	call := e.pub.Calls[0]
	require.NoError(t, json.Unmarshal(call.Arguments.Get(1).([]byte), &payload))
	require.Equal(t, int64(9), payload.ItemID)
}

func TestCommentEndpoints(t *testing.T) {
	e := newEnv(t)
	author := token(t, 1, "user")
	stranger := token(t, 2, "user")

	rec := doJSON(t, e.router, http.MethodPost, "/api/items/9/comments", author, dto.CreateCommentRequest{
		Content: "can I help?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, e.router, http.MethodGet, "/api/items/9/comments", stranger, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, e.router, http.MethodPut, "/api/comments/1", stranger, dto.UpdateCommentRequest{Content: "hijack"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e.router, http.MethodPut, "/api/comments/1", author, dto.UpdateCommentRequest{Content: "edited"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e.router, http.MethodDelete, "/api/comments/1", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e.router, http.MethodDelete, "/api/comments/1", author, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageEndpoints(t *testing.T) {
	e := newEnv(t)
	sender := token(t, 1, "user")
	receiver := token(t, 2, "user")

	rec := doJSON(t, e.router, http.MethodPost, "/api/messages", sender, dto.SendMessageRequest{
		ReceiverID: 2,
		Text:       "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sent model.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))

	rec = doJSON(t, e.router, http.MethodGet, "/api/conversations", receiver, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conversations []model.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversations))
	require.Len(t, conversations, 1)

	rec = doJSON(t, e.router, http.MethodGet, "/api/conversations/1/messages", receiver, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A third party cannot read the transcript.
	rec = doJSON(t, e.router, http.MethodGet, "/api/conversations/1/messages", token(t, 3, "user"), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e.router, http.MethodPut, "/api/messages/read", receiver, dto.MarkMessagesReadRequest{
		MessageIDs: []int64{sent.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Sending to yourself is rejected.
	rec = doJSON(t, e.router, http.MethodPost, "/api/messages", sender, dto.SendMessageRequest{
		ReceiverID: 1,
		Text:       "echo",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
