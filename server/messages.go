package server

import "encoding/json"

// Envelope is the JSON frame exchanged over the websocket: a type tag and a
// type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	msgCreateRoom      = "createRoom"
	msgJoinRoom        = "joinRoom"
	msgUpdateSettings  = "updateGameSettings"
	msgListPacks       = "listPacks"
	msgStartGame       = "startGame"
	msgSubmitCards     = "submitCards"
	msgSwapCards       = "swapCards"
	msgTradePromptCard = "tradePromptCard"
	msgToggleTimer     = "toggleTimer"
	msgSelectWinner    = "selectWinner"
	msgNextRound       = "nextRound"
	msgEndGame         = "endGame"
	msgLeaveGame       = "leaveGame"

	evtGameState    = "gameState"
	evtYourHand     = "yourHand"
	evtSubmissions  = "submissions"
	evtRoundWinner  = "roundWinner"
	evtPlayerJoined = "playerJoined"
	evtPlayerLeft   = "playerLeft"
	evtRoomCreated  = "roomCreated"
	evtRoomJoined   = "roomJoined"
	evtSession      = "session"
	evtPacks        = "packs"
	evtResult       = "result"
	evtError        = "error"
)

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Token    string `json:"token,omitempty"`
}

type settingsPayload struct {
	Packs []string `json:"packs"`
}

type startGamePayload struct {
	PackIDs []string `json:"packIds"`
}

type cardsPayload struct {
	CardIDs []string `json:"cardIds"`
}

type winnerPayload struct {
	WinnerID string `json:"winnerId"`
}

type roomTicketPayload struct {
	RoomCode string `json:"roomCode"`
	Token    string `json:"token"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type resultPayload struct {
	Op     string `json:"op"`
	Result any    `json:"result"`
}

func mustEvent(eventType string, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All event payloads are plain structs; a marshal failure is a bug.
		panic(err)
	}
	frame, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		panic(err)
	}
	return frame
}
