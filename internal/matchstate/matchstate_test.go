package matchstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toanth/monitors/internal/matchstate"
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/oracle/oracletest"
)

func newTestMatch() *matchstate.MatchState {
	game := oracletest.New(10)
	white := matchstate.PlayerSlot{Kind: matchstate.PlayerHuman, Name: "alice"}
	black := matchstate.PlayerSlot{Kind: matchstate.PlayerHuman, Name: "bob"}
	return matchstate.NewMatchState(game, "test event", "test site", white, black)
}

func TestNewMatchStateStartsAtInitialPosition(t *testing.T) {
	m := newTestMatch()
	require.Len(t, m.BoardHistory, 1)
	assert.Empty(t, m.MoveHistory)
	assert.Equal(t, oracle.White, m.CurrentBoard().ActivePlayer())
}

func TestApplyMoveKeepsHistoriesInSync(t *testing.T) {
	m := newTestMatch()
	m.ApplyMove(oracletest.Move{Delta: 2})
	assert.Len(t, m.MoveHistory, 1)
	assert.Len(t, m.BoardHistory, 2)
	assert.Equal(t, oracle.Black, m.CurrentBoard().ActivePlayer())
}

func TestApplyMovePanicsOnIllegalMove(t *testing.T) {
	m := newTestMatch()
	assert.Panics(t, func() { m.ApplyMove(oracletest.Move{Delta: 99}) })
}

func TestUndoHalfmovesRestoresHistory(t *testing.T) {
	m := newTestMatch()
	m.ApplyMove(oracletest.Move{Delta: 1})
	m.ApplyMove(oracletest.Move{Delta: 1})
	m.UndoHalfmoves(1)
	assert.Len(t, m.MoveHistory, 1)
	assert.Len(t, m.BoardHistory, 2)
}

func TestUndoHalfmovesClampsToHistoryLength(t *testing.T) {
	m := newTestMatch()
	m.ApplyMove(oracletest.Move{Delta: 1})
	m.UndoHalfmoves(100)
	assert.Empty(t, m.MoveHistory)
	assert.Len(t, m.BoardHistory, 1)
}

func TestFlipPlayersSwapsSlots(t *testing.T) {
	m := newTestMatch()
	assert.Equal(t, "alice", m.White.Name)
	m.FlipPlayers()
	assert.Equal(t, "bob", m.White.Name)
	assert.Equal(t, "alice", m.Black.Name)
}

func TestFullmoveCounter(t *testing.T) {
	m := newTestMatch()
	assert.Equal(t, 1, m.Fullmove())
	m.ApplyMove(oracletest.Move{Delta: 1})
	assert.Equal(t, 1, m.Fullmove())
	m.ApplyMove(oracletest.Move{Delta: 1})
	assert.Equal(t, 2, m.Fullmove())
}
