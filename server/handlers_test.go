package server

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eladsnd/cardsAgainstSoogShell/crypto"
	"github.com/eladsnd/cardsAgainstSoogShell/domain"
	"github.com/eladsnd/cardsAgainstSoogShell/game"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rules := game.Rules{
		MinPlayers:    2,
		MaxPlayers:    6,
		WinningScore:  2,
		HandSize:      4,
		SwapsPerRound: 2,
		TimerSeconds:  30,
	}
	codes := game.Codes{Length: 4, Chars: "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"}
	pack := domain.Pack{ID: "base", Name: "Base"}
	for i := 0; i < 6; i++ {
		pack.Prompts = append(pack.Prompts, domain.Card{ID: fmt.Sprintf("p%d", i), Text: "prompt ____", Pick: 1})
	}
	for i := 0; i < 30; i++ {
		pack.Answers = append(pack.Answers, domain.Card{ID: fmt.Sprintf("a%d", i), Text: "answer"})
	}

	log := zerolog.Nop()
	registry := game.NewRegistry(rules, codes, []domain.Pack{pack}, nil, log)
	grace := game.NewCoordinator(registry, 50*time.Millisecond, log)
	sessions := crypto.NewSessionManager("test-key", time.Hour)
	handler := NewGameHandler(registry, grace, sessions, log)

	r := CreateServer(nil)
	r.GET("/ws", handler.Serve)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// awaitEvent reads frames until one of the wanted type arrives. Broadcasts
// interleave with replies, so tests skip what they are not asserting on.
func awaitEvent(t *testing.T, conn *websocket.Conn, eventType string) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", eventType)
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		if env.Type == eventType {
			return env
		}
	}
}

// createTestRoom creates a room over the wire and returns its session ticket.
func createTestRoom(t *testing.T, conn *websocket.Conn, name string) roomTicketPayload {
	t.Helper()
	send(t, conn, msgCreateRoom, createRoomPayload{Name: name})
	awaitEvent(t, conn, evtRoomCreated)
	env := awaitEvent(t, conn, evtSession)
	var ticket roomTicketPayload
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	return ticket
}

func TestCreateAndJoinRoom(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")
	assert.Len(t, ticket.RoomCode, 4)
	assert.NotEmpty(t, ticket.Token)

	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Bob"})
	awaitEvent(t, bob, evtRoomJoined)

	joined := awaitEvent(t, alice, evtPlayerJoined)
	var who map[string]string
	require.NoError(t, json.Unmarshal(joined.Data, &who))
	assert.Equal(t, "Bob", who["name"])

	state := awaitEvent(t, alice, evtGameState)
	var snap game.StateSnapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.Len(t, snap.Players, 2)
	assert.False(t, snap.GameStarted)
}

func TestJoinRoom_UnknownRoom(t *testing.T) {
	server := testServer(t)

	conn := dial(t, server)
	send(t, conn, msgJoinRoom, joinRoomPayload{RoomCode: "ZZZZ", Name: "Bob"})

	env := awaitEvent(t, conn, evtError)
	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "room not found", payload.Message)
}

func TestJoinRoom_LowercaseCodeWorks(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")

	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: strings.ToLower(ticket.RoomCode), Name: "Bob"})

	awaitEvent(t, bob, evtRoomJoined)
}

func TestJoinRoom_ForeignTokenRejected(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")

	// Alice's token does not prove Bob's seat.
	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Bob", Token: ticket.Token})

	env := awaitEvent(t, bob, evtError)
	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "invalid session token", payload.Message)
}

func TestStartGame_DealsHandsToEveryPlayer(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")

	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Bob"})
	awaitEvent(t, bob, evtRoomJoined)

	send(t, alice, msgStartGame, startGamePayload{})

	var aliceHand, bobHand []domain.Card
	require.NoError(t, json.Unmarshal(awaitEvent(t, alice, evtYourHand).Data, &aliceHand))
	require.NoError(t, json.Unmarshal(awaitEvent(t, bob, evtYourHand).Data, &bobHand))
	assert.Len(t, aliceHand, 4)
	assert.Len(t, bobHand, 4)

	state := awaitEvent(t, bob, evtGameState)
	var snap game.StateSnapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.True(t, snap.GameStarted)
	assert.Equal(t, game.PhasePlaying, snap.Phase)
	assert.NotNil(t, snap.PromptCard)
}

func TestDisconnectCompletingRoundBroadcastsSubmissions(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")

	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Bob"})
	awaitEvent(t, bob, evtRoomJoined)
	cara := dial(t, server)
	send(t, cara, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Cara"})
	awaitEvent(t, cara, evtRoomJoined)

	send(t, alice, msgStartGame, startGamePayload{})
	var bobHand []domain.Card
	require.NoError(t, json.Unmarshal(awaitEvent(t, bob, evtYourHand).Data, &bobHand))
	send(t, bob, msgSubmitCards, cardsPayload{CardIDs: []string{bobHand[0].ID}})

	// Cara never submits; her socket dropping is what completes the round.
	cara.Close()

	env := awaitEvent(t, alice, evtSubmissions)
	var subs []game.Submission
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	require.Len(t, subs, 1)

	state := awaitEvent(t, alice, evtGameState)
	var snap game.StateSnapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.Equal(t, game.PhaseJudging, snap.Phase)
}

func TestReconnectWithSessionToken(t *testing.T) {
	server := testServer(t)

	alice := dial(t, server)
	ticket := createTestRoom(t, alice, "Alice")

	bob := dial(t, server)
	send(t, bob, msgJoinRoom, joinRoomPayload{RoomCode: ticket.RoomCode, Name: "Bob"})
	awaitEvent(t, bob, evtRoomJoined)
	bobTicket := awaitEvent(t, bob, evtSession)
	var bobSession roomTicketPayload
	require.NoError(t, json.Unmarshal(bobTicket.Data, &bobSession))

	bob.Close()

	// Wait until the server has processed the disconnect; a join racing ahead
	// of it would read as a live duplicate name.
	for {
		state := awaitEvent(t, alice, evtGameState)
		var snap game.StateSnapshot
		require.NoError(t, json.Unmarshal(state.Data, &snap))
		if len(snap.Players) == 2 && !snap.Players[1].Connected {
			break
		}
	}

	bob2 := dial(t, server)
	send(t, bob2, msgJoinRoom, joinRoomPayload{
		RoomCode: bobSession.RoomCode,
		Name:     "Bob",
		Token:    bobSession.Token,
	})
	awaitEvent(t, bob2, evtRoomJoined)

	state := awaitEvent(t, bob2, evtGameState)
	var snap game.StateSnapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	require.Len(t, snap.Players, 2, "reconnection must not create a third seat")
	assert.True(t, snap.Players[1].Connected)
}

func TestUnknownIntentGetsAnError(t *testing.T) {
	server := testServer(t)

	conn := dial(t, server)
	send(t, conn, "flipTable", struct{}{})

	env := awaitEvent(t, conn, evtError)
	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Contains(t, payload.Message, "unknown message type")
}

func TestIntentsOutsideARoomAreRejected(t *testing.T) {
	server := testServer(t)

	conn := dial(t, server)
	send(t, conn, msgStartGame, startGamePayload{})

	env := awaitEvent(t, conn, evtError)
	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "not in a room", payload.Message)
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer(t)

	resp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
