package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTimer_OnlyCzarInPlayingPhase(t *testing.T) {
	t.Parallel()
	e := startedEngine(t, testRules())

	res := e.ToggleTimer("c2")
	assert.Equal(t, ReasonOnlyCzar, res.Message)

	require.True(t, e.ForceEndGame().Success)
	res = e.ToggleTimer("c1")
	assert.Equal(t, ReasonNotPlayingPhase, res.Message)
}

func TestToggleTimer_PauseKeepsRemainingSeconds(t *testing.T) {
	t.Parallel()
	e := startedEngine(t, testRules())

	require.True(t, e.ToggleTimer("c1").Success)
	require.True(t, e.tickTimer())
	require.True(t, e.tickTimer())
	require.True(t, e.ToggleTimer("c1").Success, "second toggle pauses")

	state := e.GameState()
	assert.False(t, state.Timer.Running)
	assert.Equal(t, testRules().TimerSeconds-2, state.Timer.Remaining)

	// A tick landing after the pause must be a no-op.
	assert.False(t, e.tickTimer())
	assert.Equal(t, testRules().TimerSeconds-2, e.GameState().Timer.Remaining)
}

func TestTimerExpiry_AutoSubmitsAndForcesJudging(t *testing.T) {
	t.Parallel()
	rules := testRules()
	rules.TimerSeconds = 2
	e := startedEngine(t, rules)
	require.True(t, e.SubmitCards("c2", handIDs(e, "c2", 1)).Success)

	require.True(t, e.ToggleTimer("c1").Success)
	require.True(t, e.tickTimer())
	assert.False(t, e.tickTimer(), "expiry stops the countdown")

	state := e.GameState()
	assert.Equal(t, PhaseJudging, state.Phase)
	assert.Equal(t, 2, state.SubmissionCount, "cara was auto-submitted")
	assert.False(t, state.Timer.Running)
	assert.Len(t, e.PlayerHand("c3"), rules.HandSize-1)
}

func TestTimerExpiry_SkipsDisconnectedPlayers(t *testing.T) {
	t.Parallel()
	rules := testRules()
	rules.TimerSeconds = 1
	e := startedEngine(t, rules)
	e.MarkDisconnected("c3")

	require.True(t, e.ToggleTimer("c1").Success)
	assert.False(t, e.tickTimer())

	state := e.GameState()
	assert.Equal(t, PhaseJudging, state.Phase)
	assert.Equal(t, 1, state.SubmissionCount, "only connected bob is auto-submitted")
	assert.Len(t, e.PlayerHand("c3"), rules.HandSize, "cara's hand is untouched")
}

func TestTimerExpiry_NoSubmissionsClosesRoundWithNoWinner(t *testing.T) {
	t.Parallel()
	rules := testRules()
	rules.TimerSeconds = 1
	e := startedEngine(t, rules)

	// Strip every hand so nobody can be auto-submitted.
	e.mu.Lock()
	for _, p := range e.players {
		p.Hand = nil
	}
	e.mu.Unlock()

	require.True(t, e.ToggleTimer("c1").Success)
	assert.False(t, e.tickTimer())

	state := e.GameState()
	assert.Equal(t, PhaseRoundEnd, state.Phase)
	assert.Empty(t, state.RoundWinnerID)
	assert.Equal(t, 0, state.SubmissionCount)
}

func TestFullSubmissionStopsTheTimer(t *testing.T) {
	t.Parallel()
	e := startedEngine(t, testRules())
	require.True(t, e.ToggleTimer("c1").Success)

	require.True(t, e.SubmitCards("c2", handIDs(e, "c2", 1)).Success)
	require.True(t, e.SubmitCards("c3", handIDs(e, "c3", 1)).Success)

	state := e.GameState()
	assert.Equal(t, PhaseJudging, state.Phase)
	assert.False(t, state.Timer.Running)
	assert.False(t, e.tickTimer())
}

func TestTimer_ResetsEachRound(t *testing.T) {
	t.Parallel()
	e := startedEngine(t, testRules())
	require.True(t, e.ToggleTimer("c1").Success)
	require.True(t, e.tickTimer())
	require.True(t, e.SubmitCards("c2", handIDs(e, "c2", 1)).Success)
	require.True(t, e.SubmitCards("c3", handIDs(e, "c3", 1)).Success)
	require.True(t, e.SelectWinner("c1", "c2").Success)
	require.True(t, e.NextRound().Success)

	state := e.GameState()
	assert.False(t, state.Timer.Running)
	assert.Equal(t, testRules().TimerSeconds, state.Timer.Remaining)
}
