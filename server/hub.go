package server

import "sync"

// Hub tracks which live sessions belong to which room so room-wide events can
// be fanned out without consulting the game engine.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]struct{})}
}

func (h *Hub) Join(roomCode string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[roomCode] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) Leave(roomCode string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

// Broadcast queues frame on every session in the room.
func (h *Hub) Broadcast(roomCode string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[roomCode] {
		s.enqueue(frame)
	}
}

// Sessions returns a snapshot of the room's members.
func (h *Hub) Sessions(roomCode string) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]*Session, 0, len(h.rooms[roomCode]))
	for s := range h.rooms[roomCode] {
		members = append(members, s)
	}
	return members
}
