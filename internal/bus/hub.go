package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"donation_hub/internal/metrics"
	"donation_hub/internal/model"
)

// Session is one live connection. A user on two devices holds two sessions;
// both are reachable through the same personal-room name.
type Session struct {
	ID string
	ch chan model.Frame
}

func NewSession(buffer int) *Session {
	if buffer <= 0 {
		buffer = 16
	}
	return &Session{
		ID: uuid.NewString(),
		ch: make(chan model.Frame, buffer),
	}
}

// Frames is drained by the session's writer goroutine. The channel is closed
// when the session is unregistered.
func (s *Session) Frames() <-chan model.Frame {
	return s.ch
}

type membership struct {
	session *Session
	room    string
}

type delivery struct {
	room  string
	frame model.Frame
}

// Hub routes frames to the sessions currently joined to a room. All state
// changes flow through the Run loop, so two publishes to the same room are
// delivered to every member in publish order.
type Hub struct {
	register   chan *Session
	unregister chan *Session
	join       chan membership
	leave      chan membership
	publish    chan delivery

	rooms    map[string]map[*Session]struct{}
	sessions map[*Session]map[string]struct{}
	mu       sync.RWMutex

	metrics *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		register:   make(chan *Session),
		unregister: make(chan *Session),
		join:       make(chan membership),
		leave:      make(chan membership),
		publish:    make(chan delivery, 64),
		rooms:      make(map[string]map[*Session]struct{}),
		sessions:   make(map[*Session]map[string]struct{}),
		metrics:    m,
	}
}

func (h *Hub) Register(session *Session) {
	h.register <- session
}

// Unregister removes the session from every room and closes its frame
// channel. Safe to call once per session; the caller owns that guarantee.
func (h *Hub) Unregister(session *Session) {
	h.unregister <- session
}

func (h *Hub) Join(session *Session, room string) {
	h.join <- membership{session: session, room: room}
}

func (h *Hub) Leave(session *Session, room string) {
	h.leave <- membership{session: session, room: room}
}

// Publish is fire-and-forget: it reaches the sessions in the room at the
// moment the loop processes it, and is never replayed to late joiners.
func (h *Hub) Publish(room string, frame model.Frame) {
	h.publish <- delivery{room: room, frame: frame}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case session := <-h.register:
			h.addSession(session)
		case session := <-h.unregister:
			h.removeSession(session)
		case m := <-h.join:
			h.joinRoom(m.session, m.room)
		case m := <-h.leave:
			h.leaveRoom(m.session, m.room)
		case d := <-h.publish:
			h.deliver(d.room, d.frame)
		}
	}
}

func (h *Hub) addSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[session]; ok {
		return
	}
	h.sessions[session] = make(map[string]struct{})
	if h.metrics != nil {
		h.metrics.ActiveSessions.Inc()
	}
}

func (h *Hub) removeSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.sessions[session]
	if !ok {
		return
	}
	for room := range joined {
		h.dropMember(session, room)
	}
	delete(h.sessions, session)
	close(session.ch)
	if h.metrics != nil {
		h.metrics.ActiveSessions.Dec()
	}
}

func (h *Hub) joinRoom(session *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.sessions[session]
	if !ok {
		return
	}
	joined[room] = struct{}{}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Session]struct{})
	}
	h.rooms[room][session] = struct{}{}
}

func (h *Hub) leaveRoom(session *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.sessions[session]
	if !ok {
		return
	}
	delete(joined, room)
	h.dropMember(session, room)
}

// dropMember assumes h.mu is held.
func (h *Hub) dropMember(session *Session, room string) {
	members := h.rooms[room]
	if members == nil {
		return
	}
	delete(members, session)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) deliver(room string, frame model.Frame) {
	h.mu.RLock()
	members := h.rooms[room]
	h.mu.RUnlock()
	for session := range members {
		select {
		case session.ch <- frame:
		default:
			// Full queue: drop the oldest frame so a stalled client keeps
			// the most recent state instead of blocking everyone else.
			select {
			case <-session.ch:
				if h.metrics != nil {
					h.metrics.FramesDropped.Inc()
				}
			default:
			}
			select {
			case session.ch <- frame:
			default:
			}
		}
		if h.metrics != nil {
			h.metrics.FramesDelivered.Inc()
		}
	}
}

// RoomSize reports current membership, used by tests and debugging handlers.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
