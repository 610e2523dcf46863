package game

import (
	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// SubmitCards plays answer cards against the current prompt. On success the
// cards move from the player's hand into the submission record and the
// discard pile; when the last required submission lands the room advances to
// judging.
func (e *Engine) SubmitCards(connID string, cardIDs []string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return failure(ReasonNotPlayingPhase)
	}
	if connID == e.czarID {
		return failure(ReasonCzarCannotSubmit)
	}
	if _, ok := e.submissions[connID]; ok {
		return failure(ReasonAlreadySubmitted)
	}
	p := e.playerByConnLocked(connID)
	if p == nil {
		return failure(ReasonPlayerNotFound)
	}
	if e.promptCard == nil || len(cardIDs) != e.promptCard.Pick {
		return failure(ReasonWrongCardCount)
	}

	picked, remaining, ok := takeFromHand(p.Hand, cardIDs)
	if !ok {
		return failure(ReasonCardNotInHand)
	}

	p.Hand = remaining
	e.submissions[connID] = picked
	e.discard = append(e.discard, picked...)

	e.log.Debug().Str("player", p.Name).Int("cards", len(picked)).Msg("submission received")

	e.maybeAdvanceToJudgingLocked()
	return Result{Success: true}
}

// SwapCards trades hand cards for fresh ones against the per-round swap
// allowance. Swapping is independent of submission state and never triggers
// the judging transition.
func (e *Engine) SwapCards(connID string, cardIDs []string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return failure(ReasonNotPlayingPhase)
	}
	if connID == e.czarID {
		return failure(ReasonCzarCannotSubmit)
	}
	p := e.playerByConnLocked(connID)
	if p == nil {
		return failure(ReasonPlayerNotFound)
	}
	if len(cardIDs) == 0 || len(cardIDs) > p.SwapsRemaining {
		return failure(ReasonNotEnoughSwaps)
	}

	picked, remaining, ok := takeFromHand(p.Hand, cardIDs)
	if !ok {
		return failure(ReasonCardNotInHand)
	}

	e.discard = append(e.discard, picked...)
	replacements := e.answerDeck.Draw(len(picked), &e.discard)
	p.Hand = append(remaining, replacements...)
	p.SwapsRemaining -= len(picked)

	e.log.Debug().Str("player", p.Name).Int("swapped", len(picked)).Int("left", p.SwapsRemaining).Msg("cards swapped")

	return Result{Success: true, Hand: append([]domain.Card(nil), p.Hand...)}
}

// TradePromptCard lets the Czar exchange the prompt card once per round. The
// replaced card is retired to the prompt discard, not recycled.
func (e *Engine) TradePromptCard(connID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return failure(ReasonNotPlayingPhase)
	}
	if connID != e.czarID {
		return failure(ReasonOnlyCzar)
	}
	if e.promptTraded {
		return failure(ReasonAlreadyTraded)
	}

	card, ok := e.promptDeck.DrawOne(nil)
	if !ok {
		return failure(ReasonPromptDeckEmpty)
	}
	if e.promptCard != nil {
		e.promptDiscard = append(e.promptDiscard, *e.promptCard)
	}
	e.promptCard = &card
	e.promptTraded = true

	e.log.Debug().Str("card", card.ID).Msg("prompt card traded")

	return Result{Success: true, PromptCard: &card}
}

// SelectWinner records the Czar's verdict, scores the round and ends the
// game when the winner hits the target score.
func (e *Engine) SelectWinner(czarConnID, winnerID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseJudging {
		return failure(ReasonNotJudgingPhase)
	}
	if czarConnID != e.czarID {
		return failure(ReasonOnlyCzar)
	}
	if _, ok := e.submissions[winnerID]; !ok {
		return failure(ReasonInvalidWinner)
	}
	winner := e.playerByConnLocked(winnerID)
	if winner == nil {
		return failure(ReasonInvalidWinner)
	}

	winner.Score++
	e.roundWinnerID = winnerID
	e.phase = PhaseRoundEnd

	e.log.Info().Str("winner", winner.Name).Int("score", winner.Score).Msg("round won")

	summary := e.summaryLocked(winner)
	if winner.Score >= e.rules.WinningScore {
		e.endGameLocked()
		return Result{Success: true, GameOver: true, Winner: &summary}
	}
	return Result{Success: true, Winner: &summary}
}

// NextRound deals replacements to everyone who submitted and starts the next
// round, or ends the game when the prompt deck runs out.
func (e *Engine) NextRound() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseRoundEnd {
		return failure(ReasonNotRoundEnd)
	}

	for connID, cards := range e.submissions {
		p := e.playerByConnLocked(connID)
		if p == nil {
			continue
		}
		p.Hand = append(p.Hand, e.answerDeck.Draw(len(cards), &e.discard)...)
	}

	e.startNewRoundLocked()
	return Result{Success: true, GameOver: e.phase == PhaseGameOver}
}

// maybeAdvanceToJudgingLocked flips playing → judging once every connected
// non-Czar player has a submission on file. Disconnected players are never
// waited for, and an empty submission set never judges.
func (e *Engine) maybeAdvanceToJudgingLocked() {
	if e.phase != PhasePlaying || len(e.submissions) == 0 {
		return
	}
	for _, p := range e.players {
		if p.ID == e.czarID || !p.Connected {
			continue
		}
		if _, ok := e.submissions[p.ID]; !ok {
			return
		}
	}
	e.stopTimerLocked()
	e.phase = PhaseJudging
	e.log.Info().Int("submissions", len(e.submissions)).Msg("all submissions in, judging")
}

// takeFromHand removes the identified cards from a hand, failing when any id
// is absent (duplicate ids collapse onto a single hand card and fail too).
func takeFromHand(hand []domain.Card, cardIDs []string) (picked, remaining []domain.Card, ok bool) {
	remaining = append([]domain.Card(nil), hand...)
	picked = make([]domain.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		found := -1
		for i, card := range remaining {
			if card.ID == id {
				found = i
				break
			}
		}
		if found == -1 {
			return nil, nil, false
		}
		picked = append(picked, remaining[found])
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return picked, remaining, true
}
