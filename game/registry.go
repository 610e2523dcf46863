package game

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// Codes describes room-code generation.
type Codes struct {
	Length int
	Chars  string
}

// Registry maps room codes to engines. It is constructed once at process
// start and injected wherever rooms are needed; rooms are fully independent
// of each other.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Engine
	rules   Rules
	codes   Codes
	builtin []domain.Pack
	decks   DeckSource
	log     zerolog.Logger
}

func NewRegistry(rules Rules, codes Codes, builtin []domain.Pack, decks DeckSource, log zerolog.Logger) *Registry {
	return &Registry{
		rooms:   make(map[string]*Engine),
		rules:   rules,
		codes:   codes,
		builtin: builtin,
		decks:   decks,
		log:     log,
	}
}

// CreateRoom spins up a new engine under a fresh code with the creator
// already seated. Code collisions against live rooms are retried.
func (r *Registry) CreateRoom(creatorName, connID string) (string, *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCode()
	for _, exists := r.rooms[code]; exists; _, exists = r.rooms[code] {
		code = r.generateCode()
	}

	engine := NewEngine(code, r.rules, r.builtin, r.decks, r.log)
	engine.AddPlayer(connID, creatorName)
	r.rooms[code] = engine

	r.log.Info().Str("room", code).Str("creator", creatorName).Msg("room created")
	return code, engine
}

// Get looks a room up case-insensitively. A blank code is simply not found.
func (r *Registry) Get(code string) *Engine {
	if code == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[strings.ToUpper(code)]
}

// Remove deletes a room; removing an unknown code is a no-op.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, strings.ToUpper(code))
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) generateCode() string {
	var b strings.Builder
	for i := 0; i < r.codes.Length; i++ {
		b.WriteByte(r.codes.Chars[rand.Intn(len(r.codes.Chars))])
	}
	return b.String()
}
