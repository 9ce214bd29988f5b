package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/domain"
	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WS upgrades the connection into a transport session. The session
// auto-joins the caller's personal room (admins also join the cohort room);
// further membership is driven by join/leave commands from the client. There
// is no server-side resume state: on reconnect the client re-joins and
// re-fetches its snapshot.
func (h *Handler) WS(c *gin.Context) {
	userID := middleware.UserID(c)
	isAdmin := middleware.IsAdmin(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure; the client retries.
		h.log.Warn("ws upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	session := bus.NewSession(h.cfg.SessionBuffer)
	h.hub.Register(session)
	h.hub.Join(session, domain.UserRoom(userID))
	if isAdmin {
		h.hub.Join(session, domain.AdminRoom)
	}
	h.log.Info("ws session opened",
		zap.String("session_id", session.ID), zap.Int64("user_id", userID))

	go h.writeLoop(conn, session)
	h.readLoop(c.Request.Context(), conn, session, userID, isAdmin)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, session *bus.Session, userID int64, isAdmin bool) {
	defer h.hub.Unregister(session)

	conn.SetReadLimit(h.cfg.WSMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.WSPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.WSPongWait))
	})

	for {
		var cmd dto.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("ws read failed", zap.String("session_id", session.ID), zap.Error(err))
			}
			return
		}
		switch cmd.Action {
		case "join":
			if h.roomAllowed(ctx, cmd.Room, userID, isAdmin) {
				h.hub.Join(session, cmd.Room)
			} else {
				h.log.Warn("ws join rejected",
					zap.String("session_id", session.ID),
					zap.Int64("user_id", userID),
					zap.String("room", cmd.Room),
				)
			}
		case "leave":
			h.hub.Leave(session, cmd.Room)
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, session *bus.Session) {
	ticker := time.NewTicker(h.cfg.WSPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case frame, ok := <-session.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// roomAllowed maps a room name to its audience rule: own personal room,
// admin cohort for admins, any item room, conversation rooms for
// participants. Unknown shapes are rejected.
func (h *Handler) roomAllowed(ctx context.Context, room string, userID int64, isAdmin bool) bool {
	switch {
	case room == domain.AdminRoom:
		return isAdmin
	case room == domain.UserRoom(userID):
		return true
	case strings.HasPrefix(room, "user:"):
		return false
	case strings.HasPrefix(room, "item:"):
		_, err := strconv.ParseInt(strings.TrimPrefix(room, "item:"), 10, 64)
		return err == nil
	case strings.HasPrefix(room, "conversation:"):
		conversationID, err := strconv.ParseInt(strings.TrimPrefix(room, "conversation:"), 10, 64)
		if err != nil {
			return false
		}
		ok, err := h.chat.IsParticipant(ctx, userID, conversationID)
		return err == nil && ok
	default:
		return false
	}
}
