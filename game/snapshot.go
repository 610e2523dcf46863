package game

import "github.com/eladsnd/cardsAgainstSoogShell/domain"

// Result is the outcome of a single engine operation. Failures are
// caller-correctable and leave the engine untouched.
type Result struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	GameOver   bool           `json:"gameOver,omitempty"`
	Hand       []domain.Card  `json:"hand,omitempty"`
	PromptCard *domain.Card   `json:"promptCard,omitempty"`
	Winner     *PlayerSummary `json:"winner,omitempty"`
}

func failure(reason string) Result {
	return Result{Success: false, Message: reason}
}

// PlayerSummary is the broadcast-safe view of a player: no hand contents.
type PlayerSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	Connected      bool   `json:"connected"`
	Color          string `json:"color"`
	SwapsRemaining int    `json:"swapsRemaining"`
	HandSize       int    `json:"handSize"`
	Submitted      bool   `json:"submitted"`
}

type TimerSnapshot struct {
	Enabled   bool `json:"enabled"`
	Duration  int  `json:"durationSeconds"`
	Remaining int  `json:"remainingSeconds"`
	Running   bool `json:"running"`
}

// Submission pairs a player's connection id with the cards they played.
// Order is re-randomized on every read so the Czar cannot infer identity
// from arrival order.
type Submission struct {
	PlayerID string        `json:"playerId"`
	Cards    []domain.Card `json:"cards"`
}

// StateSnapshot is the read-only projection broadcast to every room member.
// It never carries hands; submissions appear redacted (cards only, shuffled)
// and only during judging and roundEnd.
type StateSnapshot struct {
	RoomCode        string          `json:"roomCode"`
	Players         []PlayerSummary `json:"players"`
	GameStarted     bool            `json:"gameStarted"`
	Phase           Phase           `json:"phase"`
	CurrentRound    int             `json:"currentRound"`
	PromptCard      *domain.Card    `json:"promptCard,omitempty"`
	CzarID          string          `json:"czarId,omitempty"`
	RoundWinnerID   string          `json:"roundWinnerId,omitempty"`
	SubmissionCount int             `json:"submissionCount"`
	SelectedPacks   []string        `json:"selectedPacks"`
	PromptTraded    bool            `json:"promptTraded"`
	Timer           TimerSnapshot   `json:"timer"`
	Submissions     [][]domain.Card `json:"submissions,omitempty"`
	FinalWinner     *PlayerSummary  `json:"finalWinner,omitempty"`
	Leaderboard     []PlayerSummary `json:"leaderboard,omitempty"`
}
