package dispatch

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func resetDefault(t *testing.T) {
	t.Helper()
	reset := func() {
		defaultMux.Lock()
		defer defaultMux.Unlock()
		defaultRegistry = nil
		defaultStopped = false
	}
	reset()
	t.Cleanup(reset)
}

type testScoreboard struct {
	owner  Owner
	scores []int
}

func (s *testScoreboard) onScoreChanged(newScore int) {
	s.scores = append(s.scores, newScore)
}

func TestDefault_Lazy(t *testing.T) {
	resetDefault(t)
	reg := Default()
	require.NotNil(t, reg)
	assert.Same(t, reg, Default())
}

func TestDefault_Scenario(t *testing.T) {
	resetDefault(t)
	board := &testScoreboard{owner: NewOwner()}
	require.NotNil(t, Register(board.owner, "Game", "ScoreChanged", board.onScoreChanged))

	Commit("Game", "ScoreChanged", 100)
	assert.Equal(t, []int{100}, board.scores)

	RemoveAllForOwner(board.owner)
	Commit("Game", "ScoreChanged", 200)
	assert.Equal(t, []int{100}, board.scores)
}

func TestDefault_NullGuards(t *testing.T) {
	resetDefault(t)
	assert.Nil(t, Register(Owner{}, "Game", "ScoreChanged", func() {}))
	assert.Nil(t, Register(NewOwner(), "Game", "ScoreChanged", nil))
	assert.NotPanics(t, func() {
		RemoveAllForOwner(Owner{})
	})
	assert.Empty(t, Default().Keys())

	assert.Panics(t, func() {
		Register(NewOwner(), "Game", "ScoreChanged", func(*int) {})
	}, "Pointer parameters are a programming error")
}

func TestOnStop(t *testing.T) {
	resetDefault(t)
	board := &testScoreboard{owner: NewOwner()}
	Register(board.owner, "Game", "ScoreChanged", board.onScoreChanged)

	OnStop()
	assert.Nil(t, Default())
	assert.Nil(t, Register(board.owner, "Game", "ScoreChanged", board.onScoreChanged))
	assert.NotPanics(t, func() {
		Commit("Game", "ScoreChanged", 100)
		RemoveAllForOwner(board.owner)
	})
	assert.Empty(t, board.scores)
}

func TestOnStart(t *testing.T) {
	resetDefault(t)
	board := &testScoreboard{owner: NewOwner()}
	Register(board.owner, "Game", "ScoreChanged", board.onScoreChanged)
	OnStop()

	OnStart(Strict(true))
	reg := Default()
	require.NotNil(t, reg)
	assert.True(t, reg.strict)
	assert.Equal(t, 0, reg.Count(NewKey("Game", "ScoreChanged")), "A restarted registry should be empty")

	Register(board.owner, "Game", "ScoreChanged", board.onScoreChanged)
	assert.Panics(t, func() {
		Commit("Game", "ScoreChanged", "not a score")
	})
	assert.Empty(t, board.scores)
}
