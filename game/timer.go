package game

import (
	"math/rand"
	"time"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// ToggleTimer starts or pauses the per-round countdown. The timer is opt-in
// per round and only the Czar controls it; pausing keeps the remaining
// seconds. When the countdown hits zero the engine auto-submits for every
// connected player still holding enough cards and forces judging.
func (e *Engine) ToggleTimer(connID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return failure(ReasonNotPlayingPhase)
	}
	if connID != e.czarID {
		return failure(ReasonOnlyCzar)
	}

	if e.timerRunning {
		e.stopTimerLocked()
		e.log.Debug().Int("remaining", e.timerRemaining).Msg("timer paused")
		return Result{Success: true}
	}

	if e.timerRemaining <= 0 {
		e.timerRemaining = e.rules.TimerSeconds
	}
	e.timerRunning = true
	stop := make(chan struct{})
	e.timerStop = stop
	go e.runTimer(stop)
	e.log.Debug().Int("remaining", e.timerRemaining).Msg("timer started")
	return Result{Success: true}
}

func (e *Engine) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !e.tickTimer() {
				return
			}
		}
	}
}

// tickTimer applies one countdown second. A tick that lands after the room
// already left playing (or after a pause) is a no-op; the return value tells
// the ticker goroutine whether to keep going.
func (e *Engine) tickTimer() bool {
	e.mu.Lock()
	if !e.timerRunning || e.phase != PhasePlaying {
		e.mu.Unlock()
		return false
	}

	e.timerRemaining--
	if e.timerRemaining > 0 {
		e.mu.Unlock()
		e.notify()
		return true
	}

	e.expireTimerLocked()
	e.mu.Unlock()
	e.notify()
	return false
}

// expireTimerLocked handles the countdown reaching zero: every connected
// non-Czar player without a submission gets a random valid one from their
// hand, then the round moves to judging. Players whose hands are too short
// simply sit the judging out.
func (e *Engine) expireTimerLocked() {
	e.stopTimerLocked()
	pick := 1
	if e.promptCard != nil {
		pick = e.promptCard.Pick
	}

	for _, p := range e.players {
		if p.ID == e.czarID || !p.Connected {
			continue
		}
		if _, ok := e.submissions[p.ID]; ok {
			continue
		}
		if len(p.Hand) < pick {
			continue
		}
		indices := rand.Perm(len(p.Hand))[:pick]
		cards, remaining := takeByIndex(p.Hand, indices)
		p.Hand = remaining
		e.submissions[p.ID] = cards
		e.discard = append(e.discard, cards...)
		e.log.Debug().Str("player", p.Name).Msg("timer expired, auto-submitted")
	}

	if len(e.submissions) == 0 {
		// Nobody could submit; close the round with no winner.
		e.roundWinnerID = ""
		e.phase = PhaseRoundEnd
		e.log.Info().Msg("timer expired with no submissions")
		return
	}
	e.phase = PhaseJudging
	e.log.Info().Int("submissions", len(e.submissions)).Msg("timer expired, judging")
}

// takeByIndex splits a hand into the cards at the given indices and the rest.
func takeByIndex(hand []domain.Card, indices []int) (picked, remaining []domain.Card) {
	take := make(map[int]bool, len(indices))
	for _, i := range indices {
		take[i] = true
	}
	picked = make([]domain.Card, 0, len(indices))
	remaining = make([]domain.Card, 0, len(hand)-len(indices))
	for i, card := range hand {
		if take[i] {
			picked = append(picked, card)
		} else {
			remaining = append(remaining, card)
		}
	}
	return picked, remaining
}

func (e *Engine) stopTimerLocked() {
	e.timerRunning = false
	if e.timerStop != nil {
		close(e.timerStop)
		e.timerStop = nil
	}
}
