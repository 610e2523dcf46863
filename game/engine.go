package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseJudging  Phase = "judging"
	PhaseRoundEnd Phase = "roundEnd"
	PhaseGameOver Phase = "gameOver"
)

// Rules are the per-room game constants, normally taken from config.
type Rules struct {
	MinPlayers    int
	MaxPlayers    int
	WinningScore  int
	HandSize      int
	SwapsPerRound int
	TimerSeconds  int
}

// DeckSource supplies custom decks. It is consulted again at every game
// start so out-of-band deck edits are picked up.
type DeckSource interface {
	CustomDecks(ctx context.Context) (map[string]domain.Pack, error)
}

// Engine owns all state for one room. Every operation takes the mutex, runs
// to completion and returns synchronously; the timer tick and the grace
// expiry are serialized through the same mutex and re-check phase before
// touching anything.
type Engine struct {
	mu      sync.Mutex
	log     zerolog.Logger
	rules   Rules
	builtin []domain.Pack
	decks   DeckSource
	shuffle ShuffleFunc

	roomCode      string
	players       []*Player
	gameStarted   bool
	phase         Phase
	currentRound  int
	promptCard    *domain.Card
	czarID        string
	submissions   map[string][]domain.Card
	roundWinnerID string
	selectedPacks []string
	promptDeck    *Deck
	answerDeck    *Deck
	discard       []domain.Card
	promptDiscard []domain.Card
	promptTraded  bool

	timerRunning   bool
	timerRemaining int
	timerStop      chan struct{}

	finalWinner *PlayerSummary
	leaderboard []PlayerSummary

	nextColor int
	onChange  func()
}

func NewEngine(roomCode string, rules Rules, builtin []domain.Pack, decks DeckSource, log zerolog.Logger) *Engine {
	return &Engine{
		log:            log.With().Str("room", roomCode).Logger(),
		rules:          rules,
		builtin:        builtin,
		decks:          decks,
		shuffle:        FisherYates,
		roomCode:       roomCode,
		phase:          PhaseLobby,
		submissions:    make(map[string][]domain.Card),
		selectedPacks:  []string{"base"},
		timerRemaining: rules.TimerSeconds,
	}
}

func (e *Engine) RoomCode() string {
	return e.roomCode
}

// SetOnChange registers a hook invoked after timer-driven state changes so
// the transport can rebroadcast. Player-triggered mutations return to their
// caller instead.
func (e *Engine) SetOnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// SetShuffle swaps the permutation used for every deck operation.
func (e *Engine) SetShuffle(fn ShuffleFunc) {
	e.mu.Lock()
	e.shuffle = fn
	e.mu.Unlock()
}

// AddPlayer registers a connection under a name. A known name is a
// reconnection: the connection id is rebound and the Czar role and any
// pending submission follow it. Reconnections bypass the room-size cap; the
// seat already exists.
func (e *Engine) AddPlayer(connID, name string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playerByConnLocked(connID) != nil {
		return failure(ReasonAlreadyJoined)
	}

	folded := FoldName(name)
	if p := e.playerByNameLocked(folded); p != nil {
		if p.Connected {
			return failure(ReasonNameTaken)
		}
		oldID := p.ID
		p.ID = connID
		p.Connected = true
		if e.czarID == oldID {
			e.czarID = connID
		}
		if cards, ok := e.submissions[oldID]; ok {
			delete(e.submissions, oldID)
			e.submissions[connID] = cards
		}
		e.log.Info().Str("player", p.Name).Str("conn", connID).Msg("player reconnected")
		return Result{Success: true}
	}

	if e.rules.MaxPlayers > 0 && len(e.players) >= e.rules.MaxPlayers {
		return failure(ReasonRoomFull)
	}

	p := &Player{
		Key:            uuid.NewString(),
		ID:             connID,
		Name:           name,
		Connected:      true,
		SwapsRemaining: e.rules.SwapsPerRound,
		Color:          neonPalette[e.nextColor%len(neonPalette)],
		folded:         folded,
	}
	e.nextColor++
	e.players = append(e.players, p)

	if e.gameStarted {
		p.Hand = e.answerDeck.Draw(e.rules.HandSize, &e.discard)
	}

	e.log.Info().Str("player", name).Str("conn", connID).Int("players", len(e.players)).Msg("player joined")
	return Result{Success: true}
}

// RemovePlayer drops a player outright. Used for explicit "leave"; transient
// disconnects go through MarkDisconnected and the grace coordinator instead.
func (e *Engine) RemovePlayer(connID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, p := range e.players {
		if p.ID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	p := e.players[idx]
	e.players = append(e.players[:idx], e.players[idx+1:]...)
	// The hand returns to the discard pile so the answer pool never shrinks;
	// submitted cards are already there, only the record goes.
	e.discard = append(e.discard, p.Hand...)
	delete(e.submissions, connID)

	e.log.Info().Str("player", p.Name).Int("players", len(e.players)).Msg("player left")

	if e.gameStarted && e.czarID == connID && len(e.players) > 0 {
		e.reassignCzarLocked()
	}

	switch e.phase {
	case PhasePlaying:
		e.maybeAdvanceToJudgingLocked()
	case PhaseJudging:
		if len(e.submissions) == 0 {
			// Nothing left to judge; close the round with no winner.
			e.roundWinnerID = ""
			e.phase = PhaseRoundEnd
		}
	}
	return true
}

// MarkDisconnected flags a player as gone without removing them, returning
// their name for the grace coordinator. The submission-completeness gate only
// counts connected players, so a disconnect can itself complete a round.
func (e *Engine) MarkDisconnected(connID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.playerByConnLocked(connID)
	if p == nil {
		return "", false
	}
	p.Connected = false
	e.log.Info().Str("player", p.Name).Msg("player disconnected")

	if e.phase == PhasePlaying {
		e.maybeAdvanceToJudgingLocked()
	}
	return p.Name, true
}

// GraceExpired runs the deferred disconnect cleanup for a name. It re-checks
// that the player is still disconnected: a reconnection that raced in just
// before expiry must not be undone. Reports whether the cleanup applied and
// whether the whole room is now disconnected. The change hook fires so the
// room sees the reassigned Czar without waiting for an unrelated action.
func (e *Engine) GraceExpired(name string) (stillGone bool, roomEmpty bool) {
	e.mu.Lock()

	p := e.playerByNameLocked(FoldName(name))
	if p == nil || p.Connected {
		e.mu.Unlock()
		return false, false
	}

	if e.gameStarted && e.czarID == p.ID {
		e.reassignCzarLocked()
	}

	roomEmpty = true
	for _, other := range e.players {
		if other.Connected {
			roomEmpty = false
			break
		}
	}
	e.mu.Unlock()

	if !roomEmpty {
		e.notify()
	}
	return true, roomEmpty
}

// StartGame builds the decks for the selected packs, deals opening hands and
// begins round one with the first joiner as Czar. Custom decks are re-fetched
// from the deck source at this moment.
func (e *Engine) StartGame(ctx context.Context, packIDs []string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameStarted {
		return failure(ReasonGameAlreadyStarted)
	}
	if len(e.players) < e.rules.MinPlayers {
		return failure(ReasonNotEnoughPlayers)
	}

	packsToUse := packIDs
	if len(packsToUse) == 0 {
		packsToUse = e.selectedPacks
	}
	if len(packsToUse) == 0 {
		packsToUse = []string{"base"}
	}

	var custom map[string]domain.Pack
	if e.decks != nil {
		loaded, err := e.decks.CustomDecks(ctx)
		if err != nil {
			e.log.Warn().Err(err).Msg("failed to load custom decks, using built-ins only")
		} else {
			custom = loaded
		}
	}

	promptDeck, answerDeck, err := BuildDecks(packsToUse, e.builtin, custom, e.shuffle)
	if err != nil {
		return failure(ReasonNoCards)
	}

	e.selectedPacks = packsToUse
	e.promptDeck = promptDeck
	e.answerDeck = answerDeck
	e.discard = nil
	e.promptDiscard = nil
	e.gameStarted = true
	e.currentRound = 0
	e.finalWinner = nil
	e.leaderboard = nil

	for _, p := range e.players {
		p.Hand = e.answerDeck.Draw(e.rules.HandSize, &e.discard)
	}

	e.log.Info().
		Int("prompts", e.promptDeck.Len()).
		Int("answers", e.answerDeck.Len()).
		Strs("packs", packsToUse).
		Msg("game started")

	e.startNewRoundLocked()
	return Result{Success: true}
}

// UpdateSettings changes the lobby's pack selection ahead of game start.
func (e *Engine) UpdateSettings(packIDs []string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameStarted {
		return failure(ReasonGameAlreadyStarted)
	}
	if len(packIDs) > 0 {
		e.selectedPacks = packIDs
	}
	return Result{Success: true}
}

// AvailablePacks lists built-in packs plus whatever the deck source holds.
func (e *Engine) AvailablePacks(ctx context.Context) []domain.PackInfo {
	infos := make([]domain.PackInfo, 0, len(e.builtin))
	for _, pack := range e.builtin {
		infos = append(infos, domain.PackInfo{ID: pack.ID, Name: pack.Name})
	}
	if e.decks == nil {
		return infos
	}
	custom, err := e.decks.CustomDecks(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to list custom decks")
		return infos
	}
	ids := make([]string, 0, len(custom))
	for id := range custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		infos = append(infos, domain.PackInfo{ID: id, Name: custom[id].Name + " (Custom)", Custom: true})
	}
	return infos
}

// ForceEndGame short-circuits any in-progress phase straight to gameOver
// with a leaderboard.
func (e *Engine) ForceEndGame() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.gameStarted {
		return failure(ReasonGameNotStarted)
	}
	if e.phase == PhaseGameOver {
		return failure(ReasonGameAlreadyStarted)
	}

	e.endGameLocked()
	return Result{Success: true, GameOver: true, Winner: e.finalWinner}
}

// startNewRoundLocked advances the round counter, rotates the Czar and draws
// the next prompt card. An exhausted prompt deck ends the game instead of
// failing the caller.
func (e *Engine) startNewRoundLocked() {
	e.stopTimerLocked()
	e.currentRound++
	e.submissions = make(map[string][]domain.Card)
	e.roundWinnerID = ""
	e.promptTraded = false
	e.timerRemaining = e.rules.TimerSeconds
	for _, p := range e.players {
		p.SwapsRemaining = e.rules.SwapsPerRound
	}

	if e.promptCard != nil {
		e.promptDiscard = append(e.promptDiscard, *e.promptCard)
		e.promptCard = nil
	}
	card, ok := e.promptDeck.DrawOne(nil)
	if !ok {
		e.log.Info().Int("round", e.currentRound).Msg("prompt deck exhausted, ending game")
		e.endGameLocked()
		return
	}
	e.promptCard = &card

	// A stale Czar id (player left) rotates from the top of the list.
	idx := -1
	for i, p := range e.players {
		if p.ID == e.czarID {
			idx = i
			break
		}
	}
	e.czarID = e.players[(idx+1)%len(e.players)].ID
	e.phase = PhasePlaying

	e.log.Info().Int("round", e.currentRound).Str("czar", e.czarID).Msg("round started")
}

func (e *Engine) endGameLocked() {
	e.stopTimerLocked()
	e.leaderboard = make([]PlayerSummary, 0, len(e.players))
	for _, p := range e.players {
		e.leaderboard = append(e.leaderboard, e.summaryLocked(p))
	}
	sort.SliceStable(e.leaderboard, func(i, j int) bool {
		return e.leaderboard[i].Score > e.leaderboard[j].Score
	})
	if len(e.leaderboard) > 0 {
		top := e.leaderboard[0]
		e.finalWinner = &top
	}
	e.phase = PhaseGameOver
	e.log.Info().Msg("game over")
}

// reassignCzarLocked hands the role to the first connected player, falling
// back to the first tracked one. A new Czar holding a submission would break
// the Czar-exclusion invariant, so that submission is dropped (its cards are
// already in the discard pile).
func (e *Engine) reassignCzarLocked() {
	if len(e.players) == 0 {
		return
	}
	next := e.players[0]
	for _, p := range e.players {
		if p.Connected {
			next = p
			break
		}
	}
	e.czarID = next.ID
	if _, ok := e.submissions[next.ID]; ok {
		delete(e.submissions, next.ID)
		if e.phase == PhaseJudging && len(e.submissions) == 0 {
			e.roundWinnerID = ""
			e.phase = PhaseRoundEnd
		}
	}
	e.log.Info().Str("czar", next.Name).Msg("czar reassigned")
}

func (e *Engine) playerByConnLocked(connID string) *Player {
	for _, p := range e.players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

func (e *Engine) playerByNameLocked(folded string) *Player {
	for _, p := range e.players {
		if p.folded == folded {
			return p
		}
	}
	return nil
}

func (e *Engine) summaryLocked(p *Player) PlayerSummary {
	_, submitted := e.submissions[p.ID]
	return PlayerSummary{
		ID:             p.ID,
		Name:           p.Name,
		Score:          p.Score,
		Connected:      p.Connected,
		Color:          p.Color,
		SwapsRemaining: p.SwapsRemaining,
		HandSize:       len(p.Hand),
		Submitted:      submitted,
	}
}

// GameState is the broadcast-safe projection: no hands, and submissions
// appear only during judging and roundEnd, shuffled and stripped of player
// ids.
func (e *Engine) GameState() StateSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := StateSnapshot{
		RoomCode:        e.roomCode,
		Players:         make([]PlayerSummary, 0, len(e.players)),
		GameStarted:     e.gameStarted,
		Phase:           e.phase,
		CurrentRound:    e.currentRound,
		CzarID:          e.czarID,
		RoundWinnerID:   e.roundWinnerID,
		SubmissionCount: len(e.submissions),
		SelectedPacks:   append([]string(nil), e.selectedPacks...),
		PromptTraded:    e.promptTraded,
		Timer: TimerSnapshot{
			Enabled:   e.rules.TimerSeconds > 0,
			Duration:  e.rules.TimerSeconds,
			Remaining: e.timerRemaining,
			Running:   e.timerRunning,
		},
		FinalWinner: e.finalWinner,
		Leaderboard: append([]PlayerSummary(nil), e.leaderboard...),
	}
	for _, p := range e.players {
		snap.Players = append(snap.Players, e.summaryLocked(p))
	}
	if e.promptCard != nil {
		card := *e.promptCard
		snap.PromptCard = &card
	}
	if e.phase == PhaseJudging || e.phase == PhaseRoundEnd {
		for _, cards := range e.submissions {
			snap.Submissions = append(snap.Submissions, append([]domain.Card(nil), cards...))
		}
		rand.Shuffle(len(snap.Submissions), func(i, j int) {
			snap.Submissions[i], snap.Submissions[j] = snap.Submissions[j], snap.Submissions[i]
		})
	}
	return snap
}

// Submissions returns the judging set in randomized order, re-shuffled on
// every call so arrival order leaks nothing.
func (e *Engine) Submissions() []Submission {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := make([]Submission, 0, len(e.submissions))
	for playerID, cards := range e.submissions {
		subs = append(subs, Submission{
			PlayerID: playerID,
			Cards:    append([]domain.Card(nil), cards...),
		})
	}
	rand.Shuffle(len(subs), func(i, j int) {
		subs[i], subs[j] = subs[j], subs[i]
	})
	return subs
}

// PlayerHand is the authoritative hand for one player; never broadcast.
func (e *Engine) PlayerHand(connID string) []domain.Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.playerByConnLocked(connID)
	if p == nil {
		return nil
	}
	return append([]domain.Card(nil), p.Hand...)
}

// PlayerCount reports how many seats the room holds, connected or not.
func (e *Engine) PlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.players)
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}
