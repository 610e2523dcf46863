package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 32

	// Clients get a small burst, then 10 intents per second.
	intentRate  = rate.Limit(10)
	intentBurst = 20
)

// Session is one websocket connection. Its id doubles as the player's
// transient connection handle inside the engine.
type Session struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	handler *GameHandler
	log     zerolog.Logger

	// sendMu guards send against enqueueing after close; broadcasts arrive
	// from other sessions' goroutines.
	sendMu sync.Mutex
	closed bool

	// Set by createRoom/joinRoom, read only from the read pump goroutine.
	roomCode   string
	playerName string
}

func newSession(conn *websocket.Conn, handler *GameHandler, log zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(intentRate, intentBurst),
		handler: handler,
		log:     log.With().Str("connId", id).Logger(),
	}
}

// enqueue hands frame to the write pump. A session that cannot keep up is
// closed rather than allowed to block the whole room.
func (s *Session) enqueue(frame []byte) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- frame:
	default:
		s.log.Warn().Msg("send buffer full, dropping session")
		s.closed = true
		close(s.send)
	}
}

func (s *Session) sendEvent(eventType string, v any) {
	s.enqueue(mustEvent(eventType, v))
}

func (s *Session) sendError(message string) {
	s.sendEvent(evtError, errorPayload{Message: message})
}

func (s *Session) close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

func (s *Session) readPump() {
	defer func() {
		s.handler.sessionClosed(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}
		if !s.limiter.Allow() {
			s.sendError("too many requests")
			continue
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.sendError("malformed message")
			continue
		}
		s.handler.dispatch(s, env)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
