package oracletest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/oracle/oracletest"
)

func TestParseMoveRejectsOutOfRangeDelta(t *testing.T) {
	game := oracletest.New(10)
	board := game.InitialPosition()
	_, err := game.ParseMove("inc4", board)
	assert.Error(t, err)
}

func TestApplyAlternatesMover(t *testing.T) {
	game := oracletest.New(10)
	board := game.InitialPosition()
	mv, err := game.ParseMove("inc2", board)
	require.NoError(t, err)
	next, ok := game.Apply(board, mv)
	require.True(t, ok)
	assert.Equal(t, oracle.Black, next.ActivePlayer())
}

func TestMatchResultSlowDeclaresWinnerAtTarget(t *testing.T) {
	game := oracletest.New(3)
	board := game.InitialPosition()
	mv, _ := game.ParseMove("inc3", board)
	next, ok := game.Apply(board, mv)
	require.True(t, ok)
	result := game.MatchResultSlow([]oracle.Board{board, next})
	require.NotNil(t, result)
	assert.Equal(t, oracle.OutcomeWhiteWins, result.Outcome)
}

func TestMatchResultSlowNilBeforeTarget(t *testing.T) {
	game := oracletest.New(10)
	board := game.InitialPosition()
	mv, _ := game.ParseMove("inc2", board)
	next, _ := game.Apply(board, mv)
	assert.Nil(t, game.MatchResultSlow([]oracle.Board{board, next}))
}
