package game

import "errors"

var ErrNoCards = errors.New("no-cards-in-packs")

// Failure reasons surfaced in Result.Message. The transport forwards them
// verbatim, so they stay short and machine-checkable.
const (
	ReasonGameAlreadyStarted = "game-already-started"
	ReasonGameNotStarted     = "game-not-started"
	ReasonNotEnoughPlayers   = "not-enough-players"
	ReasonNoCards            = "no-cards-in-packs"
	ReasonNotPlayingPhase    = "not-playing-phase"
	ReasonNotJudgingPhase    = "not-judging-phase"
	ReasonNotRoundEnd        = "not-round-end"
	ReasonCzarCannotSubmit   = "czar-cannot-submit"
	ReasonOnlyCzar           = "only-czar"
	ReasonAlreadySubmitted   = "already-submitted"
	ReasonWrongCardCount     = "wrong-card-count"
	ReasonCardNotInHand      = "card-not-in-hand"
	ReasonPlayerNotFound     = "player-not-found"
	ReasonInvalidWinner      = "invalid-winner"
	ReasonAlreadyTraded      = "already-traded"
	ReasonNotEnoughSwaps     = "not-enough-swaps"
	ReasonPromptDeckEmpty    = "prompt-deck-empty"
	ReasonRoomFull           = "room-full"
	ReasonNameTaken          = "name-taken"
	ReasonAlreadyJoined      = "already-joined"
)
