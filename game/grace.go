package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Coordinator defers disconnect cleanup so a flapping connection can come
// back without losing its seat. One pending action exists per
// (room, player-name) pair; re-arming cancels the previous one.
type Coordinator struct {
	mu       sync.Mutex
	registry *Registry
	grace    time.Duration
	pending  map[string]*time.Timer
	log      zerolog.Logger
}

func NewCoordinator(registry *Registry, grace time.Duration, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		grace:    grace,
		pending:  make(map[string]*time.Timer),
		log:      log,
	}
}

// PlayerDisconnected marks the player disconnected and arms the grace
// window. If the same name rejoins before it fires, CancelPending disarms it.
func (c *Coordinator) PlayerDisconnected(roomCode, connID string) {
	engine := c.registry.Get(roomCode)
	if engine == nil {
		return
	}
	name, ok := engine.MarkDisconnected(connID)
	if !ok {
		return
	}

	key := graceKey(roomCode, name)
	c.mu.Lock()
	if prev := c.pending[key]; prev != nil {
		prev.Stop()
	}
	c.pending[key] = time.AfterFunc(c.grace, func() {
		c.expire(roomCode, name)
	})
	c.mu.Unlock()

	c.log.Debug().Str("room", roomCode).Str("player", name).Dur("grace", c.grace).Msg("grace period armed")
}

// CancelPending disarms the grace action for a name, typically because the
// player reconnected or left for good.
func (c *Coordinator) CancelPending(roomCode, name string) {
	key := graceKey(roomCode, name)
	c.mu.Lock()
	if t := c.pending[key]; t != nil {
		t.Stop()
		delete(c.pending, key)
		c.log.Debug().Str("room", roomCode).Str("player", name).Msg("grace period cancelled")
	}
	c.mu.Unlock()
}

// expire runs when the grace window elapses without a reconnect. The engine
// re-checks connection state itself, so a reconnection that arrived too late
// to cancel is still safe.
func (c *Coordinator) expire(roomCode, name string) {
	c.mu.Lock()
	delete(c.pending, graceKey(roomCode, name))
	c.mu.Unlock()

	engine := c.registry.Get(roomCode)
	if engine == nil {
		return
	}
	stillGone, roomEmpty := engine.GraceExpired(name)
	if !stillGone {
		return
	}
	c.log.Info().Str("room", roomCode).Str("player", name).Msg("grace period expired")
	if roomEmpty {
		c.registry.Remove(roomCode)
		c.log.Info().Str("room", roomCode).Msg("room abandoned, removed")
	}
}

func graceKey(roomCode, name string) string {
	return roomCode + ":" + FoldName(name)
}
