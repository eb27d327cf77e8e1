package sink_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toanth/monitors/internal/oracle/oracletest"
	"github.com/toanth/monitors/internal/sink"
)

func TestTextShowWritesFEN(t *testing.T) {
	var buf bytes.Buffer
	s := sink.NewText(&buf)
	board := oracletest.New(10).InitialPosition()
	s.Show(board)
	assert.Contains(t, buf.String(), board.FEN())
}

func TestTextInformGameOverIncludesReason(t *testing.T) {
	var buf bytes.Buffer
	s := sink.NewText(&buf)
	s.InformGameOver("1-0", "checkmate")
	assert.Contains(t, buf.String(), "1-0")
	assert.Contains(t, buf.String(), "checkmate")
}

func TestMultiFansOutToEverySink(t *testing.T) {
	var a, b bytes.Buffer
	m := sink.Multi{sink.NewText(&a), sink.NewText(&b)}
	m.DisplayMessage("hello")
	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}
