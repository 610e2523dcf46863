package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/eladsnd/cardsAgainstSoogShell/crypto"
	"github.com/eladsnd/cardsAgainstSoogShell/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GameHandler terminates websockets and translates client intents into engine
// operations. It owns no game state itself; rooms live in the registry.
type GameHandler struct {
	registry *game.Registry
	grace    *game.Coordinator
	sessions *crypto.SessionManager
	hub      *Hub
	log      zerolog.Logger
}

func NewGameHandler(registry *game.Registry, grace *game.Coordinator, sessions *crypto.SessionManager, log zerolog.Logger) *GameHandler {
	return &GameHandler{
		registry: registry,
		grace:    grace,
		sessions: sessions,
		hub:      NewHub(),
		log:      log,
	}
}

// Serve upgrades the request and runs the session pumps. The read pump owns
// the session's lifecycle; this handler returns when the upgrade completes.
func (h *GameHandler) Serve(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	s := newSession(conn, h, h.log)
	go s.writePump()
	go s.readPump()
}

func (h *GameHandler) dispatch(s *Session, env Envelope) {
	switch env.Type {
	case msgCreateRoom:
		h.createRoom(s, env.Data)
	case msgJoinRoom:
		h.joinRoom(s, env.Data)
	case msgUpdateSettings:
		h.updateSettings(s, env.Data)
	case msgListPacks:
		h.listPacks(s)
	case msgStartGame:
		h.startGame(s, env.Data)
	case msgSubmitCards:
		h.submitCards(s, env.Data)
	case msgSwapCards:
		h.swapCards(s, env.Data)
	case msgTradePromptCard:
		h.withEngine(s, env.Type, func(e *game.Engine) game.Result { return e.TradePromptCard(s.id) })
	case msgToggleTimer:
		h.withEngine(s, env.Type, func(e *game.Engine) game.Result { return e.ToggleTimer(s.id) })
	case msgSelectWinner:
		h.selectWinner(s, env.Data)
	case msgNextRound:
		h.nextRound(s)
	case msgEndGame:
		h.withEngine(s, env.Type, func(e *game.Engine) game.Result { return e.ForceEndGame() })
	case msgLeaveGame:
		h.leaveGame(s)
	default:
		s.sendError("unknown message type: " + env.Type)
	}
}

func (h *GameHandler) createRoom(s *Session, data json.RawMessage) {
	var payload createRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		s.sendError("a player name is required")
		return
	}
	if s.roomCode != "" {
		s.sendError("already in a room")
		return
	}

	name := strings.TrimSpace(payload.Name)
	code, engine := h.registry.CreateRoom(name, s.id)
	h.bindEngine(engine)
	s.roomCode = code
	s.playerName = name
	h.hub.Join(code, s)

	s.sendEvent(evtRoomCreated, gin.H{"roomCode": code})
	h.issueSession(s, code, name)
	h.broadcastState(engine)
}

func (h *GameHandler) joinRoom(s *Session, data json.RawMessage) {
	var payload joinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		s.sendError("a player name is required")
		return
	}
	if s.roomCode != "" {
		s.sendError("already in a room")
		return
	}

	name := strings.TrimSpace(payload.Name)
	code := strings.ToUpper(strings.TrimSpace(payload.RoomCode))
	engine := h.registry.Get(code)
	if engine == nil {
		s.sendError("room not found")
		return
	}

	// A token proves a prior seat in this room under this name; a stale or
	// foreign token is rejected rather than silently ignored.
	if payload.Token != "" {
		tokenRoom, tokenName, err := h.sessions.Verify(payload.Token)
		if err != nil || tokenRoom != code || game.FoldName(tokenName) != game.FoldName(name) {
			s.sendError("invalid session token")
			return
		}
	}

	h.grace.CancelPending(code, name)
	if res := engine.AddPlayer(s.id, name); !res.Success {
		s.sendError(res.Message)
		return
	}
	h.bindEngine(engine)
	s.roomCode = code
	s.playerName = name
	h.hub.Join(code, s)

	s.sendEvent(evtRoomJoined, gin.H{"roomCode": code})
	h.issueSession(s, code, name)
	if hand := engine.PlayerHand(s.id); len(hand) > 0 {
		s.sendEvent(evtYourHand, hand)
	}
	h.hub.Broadcast(code, mustEvent(evtPlayerJoined, gin.H{"name": name}))
	h.broadcastState(engine)
}

func (h *GameHandler) updateSettings(s *Session, data json.RawMessage) {
	var payload settingsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("malformed settings")
		return
	}
	h.withEngine(s, msgUpdateSettings, func(e *game.Engine) game.Result {
		return e.UpdateSettings(payload.Packs)
	})
}

func (h *GameHandler) listPacks(s *Session) {
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.sendEvent(evtPacks, engine.AvailablePacks(ctx))
}

func (h *GameHandler) startGame(s *Session, data json.RawMessage) {
	var payload startGamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("malformed message")
		return
	}
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result := engine.StartGame(ctx, payload.PackIDs)
	s.sendEvent(evtResult, resultPayload{Op: msgStartGame, Result: result})
	if result.Success {
		h.sendHands(engine)
		h.broadcastState(engine)
	}
}

func (h *GameHandler) submitCards(s *Session, data json.RawMessage) {
	var payload cardsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("malformed message")
		return
	}
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	result := engine.SubmitCards(s.id, payload.CardIDs)
	s.sendEvent(evtResult, resultPayload{Op: msgSubmitCards, Result: result})
	if result.Success {
		s.sendEvent(evtYourHand, engine.PlayerHand(s.id))
		h.afterMutation(engine)
	}
}

func (h *GameHandler) swapCards(s *Session, data json.RawMessage) {
	var payload cardsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("malformed message")
		return
	}
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	result := engine.SwapCards(s.id, payload.CardIDs)
	s.sendEvent(evtResult, resultPayload{Op: msgSwapCards, Result: result})
	if result.Success {
		s.sendEvent(evtYourHand, result.Hand)
		h.broadcastState(engine)
	}
}

func (h *GameHandler) selectWinner(s *Session, data json.RawMessage) {
	var payload winnerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("malformed message")
		return
	}
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	result := engine.SelectWinner(s.id, payload.WinnerID)
	s.sendEvent(evtResult, resultPayload{Op: msgSelectWinner, Result: result})
	if result.Success {
		h.hub.Broadcast(engine.RoomCode(), mustEvent(evtRoundWinner, gin.H{
			"winnerId": payload.WinnerID,
			"gameOver": result.GameOver,
			"winner":   result.Winner,
		}))
		h.broadcastState(engine)
	}
}

func (h *GameHandler) nextRound(s *Session) {
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	result := engine.NextRound()
	s.sendEvent(evtResult, resultPayload{Op: msgNextRound, Result: result})
	if result.Success {
		h.sendHands(engine)
		h.broadcastState(engine)
	}
}

func (h *GameHandler) leaveGame(s *Session) {
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	code := s.roomCode
	name := s.playerName
	h.grace.CancelPending(code, name)
	engine.RemovePlayer(s.id)
	h.hub.Leave(code, s)
	s.roomCode = ""
	s.playerName = ""

	if engine.PlayerCount() == 0 {
		h.registry.Remove(code)
		return
	}
	h.hub.Broadcast(code, mustEvent(evtPlayerLeft, gin.H{"name": name}))
	h.broadcastState(engine)
}

// sessionClosed runs when the socket drops without an explicit leave. The
// seat survives the grace window so the same name can reclaim it.
func (h *GameHandler) sessionClosed(s *Session) {
	s.close()
	if s.roomCode == "" {
		return
	}
	code := s.roomCode
	h.hub.Leave(code, s)
	h.grace.PlayerDisconnected(code, s.id)

	// A disconnect can itself complete the round, so the judging set must go
	// out along with the new state.
	if engine := h.registry.Get(code); engine != nil {
		h.afterMutation(engine)
	}
}

// issueSession hands the client a token proving its seat, used to reclaim the
// name after a reconnect.
func (h *GameHandler) issueSession(s *Session, roomCode, name string) {
	token, err := h.sessions.Generate(roomCode, name, time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("session token generation failed")
		return
	}
	s.sendEvent(evtSession, roomTicketPayload{RoomCode: roomCode, Token: token})
}

// withEngine runs a no-payload engine operation and replies with its result,
// rebroadcasting state on success.
func (h *GameHandler) withEngine(s *Session, op string, fn func(*game.Engine) game.Result) {
	engine := h.engineFor(s)
	if engine == nil {
		return
	}
	result := fn(engine)
	s.sendEvent(evtResult, resultPayload{Op: op, Result: result})
	if result.Success {
		h.broadcastState(engine)
	}
}

func (h *GameHandler) engineFor(s *Session) *game.Engine {
	if s.roomCode == "" {
		s.sendError("not in a room")
		return nil
	}
	engine := h.registry.Get(s.roomCode)
	if engine == nil {
		s.sendError("room not found")
		return nil
	}
	return engine
}

// bindEngine wires the engine's change hook to a room broadcast. Idempotent;
// rebinding on every join just replaces the hook with an identical one.
func (h *GameHandler) bindEngine(engine *game.Engine) {
	engine.SetOnChange(func() {
		h.afterMutation(engine)
	})
}

// afterMutation rebroadcasts state and, when the phase reached judging, the
// judging set. Timer expiry can auto-submit cards, so hands are refreshed too.
func (h *GameHandler) afterMutation(engine *game.Engine) {
	state := engine.GameState()
	code := engine.RoomCode()
	if state.Phase == game.PhaseJudging || state.Phase == game.PhaseRoundEnd {
		h.hub.Broadcast(code, mustEvent(evtSubmissions, engine.Submissions()))
		h.sendHands(engine)
	}
	h.hub.Broadcast(code, mustEvent(evtGameState, state))
}

func (h *GameHandler) broadcastState(engine *game.Engine) {
	h.hub.Broadcast(engine.RoomCode(), mustEvent(evtGameState, engine.GameState()))
}

// sendHands unicasts each member their own hand.
func (h *GameHandler) sendHands(engine *game.Engine) {
	for _, member := range h.hub.Sessions(engine.RoomCode()) {
		if hand := engine.PlayerHand(member.id); hand != nil {
			member.sendEvent(evtYourHand, hand)
		}
	}
}
