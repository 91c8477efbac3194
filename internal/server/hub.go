package server

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrFull is returned when the session cap is reached.
var ErrFull = errors.New("server full")

// Hub tracks the live sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	nextID   int
}

// newHub creates a hub admitting at most max sessions; 0 means no limit.
func newHub(max int) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

func (h *Hub) generateSessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	return fmt.Sprintf("session_%d_%d", time.Now().UnixMilli(), h.nextID)
}

func (h *Hub) add(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.max > 0 && len(h.sessions) >= h.max {
		return ErrFull
	}
	h.sessions[s.id] = s
	return nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// closeAll drops every connection, ending their sessions.
func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		s.close()
	}
}
