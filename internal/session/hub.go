package session

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks live sessions per board.
type Hub struct {
	mu     sync.RWMutex
	boards map[string]map[string]*Session // boardID -> sessionID -> session
	live   sync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{boards: make(map[string]map[string]*Session)}
}

// Register adds s. Call it before s.Run starts.
func (h *Hub) Register(s *Session) {
	s.hub = h

	h.mu.Lock()
	room, ok := h.boards[s.BoardID]
	if !ok {
		room = make(map[string]*Session)
		h.boards[s.BoardID] = room
	}
	if _, dup := room[s.ID]; !dup {
		h.live.Add(1)
	}
	room[s.ID] = s
	n := len(room)
	h.mu.Unlock()

	slog.Info("session joined", "session", s.ID, "board", s.BoardID, "sessions", n)
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	room := h.boards[s.BoardID]
	if _, ok := room[s.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, s.ID)
	h.live.Done()
	if len(room) == 0 {
		delete(h.boards, s.BoardID)
	}
	h.mu.Unlock()

	slog.Info("session left", "session", s.ID, "board", s.BoardID)
}

// Count returns the number of live sessions on a board.
func (h *Hub) Count(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

// Broadcast queues msg on every session of the board except exclude.
func (h *Hub) Broadcast(boardID string, msg *Message, exclude string) {
	h.mu.RLock()
	room := h.boards[boardID]
	sessions := make([]*Session, 0, len(room))
	for id, s := range room {
		if id != exclude {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.sendMessage(msg)
	}
}

// Wait blocks until every registered session has unregistered or ctx is
// done. If ctx ends first the helper goroutine stays parked until the last
// session leaves; Wait is meant to be called once, at shutdown.
func (h *Hub) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.live.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
