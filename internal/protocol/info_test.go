package protocol_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/oracle/oracletest"
	"github.com/toanth/monitors/internal/protocol"
)

func TestParseInfoBasicFields(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("depth 12 seldepth 20 time 340 nodes 123456 nps 500000 hashfull 210 score cp 35"), nil, nil, true, oracle.White)
	require.NoError(t, err)
	require.NotNil(t, res.Info)
	assert.Equal(t, 12, res.Info.Depth)
	assert.Equal(t, 20, res.Info.SelDepth)
	assert.Equal(t, 340*time.Millisecond, res.Info.Time)
	assert.Equal(t, uint64(123456), res.Info.Nodes)
	assert.Equal(t, uint64(500000), res.Info.NPS)
	assert.Equal(t, 210, res.Info.HashFull)
	assert.Equal(t, protocol.Score(35), res.Info.Score)
}

func TestParseInfoStringMessage(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("string NNUE evaluation enabled"), nil, nil, true, oracle.White)
	require.NoError(t, err)
	assert.True(t, res.HasStringMsg)
	assert.Equal(t, "NNUE evaluation enabled", res.StringMsg)
}

func TestParseInfoMateScore(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("score mate 3"), nil, nil, true, oracle.White)
	require.NoError(t, err)
	assert.Equal(t, protocol.MateIn(3), res.Info.Score)
	assert.True(t, res.Info.Score.IsMate())
}

func TestParseInfoMateZeroEqualsWinSentinel(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("score mate 0"), nil, nil, true, oracle.White)
	require.NoError(t, err)
	assert.Equal(t, protocol.Win, res.Info.Score)
}

func TestParseInfoNegatesForBlackToMoveWhitePOV(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("score cp 50"), nil, nil, true, oracle.Black)
	require.NoError(t, err)
	assert.Equal(t, protocol.Score(-50), res.Info.Score)
}

func TestParseInfoErrorIsFatal(t *testing.T) {
	_, err := protocol.ParseInfo(tokens("error engine crashed"), nil, nil, true, oracle.White)
	require.Error(t, err)
	var engErr *protocol.ErrEngineError
	assert.ErrorAs(t, err, &engErr)
}

func TestParseInfoPVStopsAtFirstUnparseableMove(t *testing.T) {
	game := oracletest.New(10)
	board := game.InitialPosition()
	res, err := protocol.ParseInfo(tokens("pv inc2 inc3 notamove depth 4"), game, board, true, oracle.White)
	require.NoError(t, err)
	require.Len(t, res.Info.PV, 2)
	assert.Equal(t, 4, res.Info.Depth)
}

func TestParseInfoDiscardsButConsumesKnownKeys(t *testing.T) {
	res, err := protocol.ParseInfo(tokens("currmove inc1 currmovenumber 3 depth 5"), nil, nil, true, oracle.White)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Info.Depth)
}
