package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donation_hub/internal/auth"
	"donation_hub/internal/bus"
	"donation_hub/internal/config"
	httpserver "donation_hub/internal/http"
	"donation_hub/internal/http/controller"
	"donation_hub/internal/metrics"
	"donation_hub/internal/service/chat"
	"donation_hub/internal/service/comment"
	"donation_hub/internal/service/notify"
	"donation_hub/internal/store/memory"
)

const testSecret = "e2e-secret"

type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	_ = ctx
	_ = payload
	_ = routingKey
	return nil
}

type stack struct {
	server *httptest.Server
	hub    *bus.Hub
	cfg    *config.Config
}

func newStack(t *testing.T) *stack {
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
	handler := controller.NewHandler(cfg, notifier, chatSvc, commentSvc, hub, logger, &noopPublisher{})
	router := httpserver.NewRouter(cfg, handler, metrics.New(), logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &stack{server: server, hub: hub, cfg: cfg}
}

func (s *stack) token(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

// dialWS opens a transport session; the token rides the query string because
// browsers cannot set headers on websocket upgrades.
func (s *stack) dialWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitForRoomSize blocks until the hub has processed pending joins, so a test
// can publish knowing its sessions are already members.
func (s *stack) waitForRoomSize(t *testing.T, room string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.hub.RoomSize(room) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *stack) doJSON(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type wireFrame struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func sendCommand(t *testing.T, conn *websocket.Conn, action, room string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"action": action, "room": room}))
}

func readFrame(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame wireFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func requireNoFrame(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var frame wireFrame
	err := conn.ReadJSON(&frame)
	require.Error(t, err, "unexpected frame %q", frame.Kind)
}
