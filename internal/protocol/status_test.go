package protocol_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toanth/monitors/internal/protocol"
)

func TestAllowedDuringHandshake(t *testing.T) {
	s := protocol.NewWaitingUgiOk()
	assert.True(t, s.Allowed(protocol.VerbOption))
	assert.True(t, s.Allowed(protocol.VerbUciOk))
	assert.False(t, s.Allowed(protocol.VerbBestmove))
	assert.True(t, s.SilentlyDropped(protocol.VerbBestmove))
}

func TestAllowedWhileIdle(t *testing.T) {
	s := protocol.NewIdle()
	assert.True(t, s.Allowed(protocol.VerbInfo))
	assert.False(t, s.Allowed(protocol.VerbBestmove))
	assert.False(t, s.SilentlyDropped(protocol.VerbBestmove))
}

func TestAllowedWhileThinking(t *testing.T) {
	s := protocol.NewThinkingSince(time.Now())
	assert.True(t, s.Allowed(protocol.VerbBestmove))
	assert.True(t, s.Allowed(protocol.VerbInfo))
	assert.False(t, s.Allowed(protocol.VerbReadyOk))
}

func TestAllowedWhilePing(t *testing.T) {
	s := protocol.NewPing(time.Now())
	assert.True(t, s.Allowed(protocol.VerbReadyOk))
	assert.True(t, s.Allowed(protocol.VerbBestmove))
}

func TestHaltPreservesThinkingStartOnPlay(t *testing.T) {
	start := time.Now().Add(-time.Second)
	s := protocol.NewThinkingSince(start)
	halted := s.Halt(protocol.ActionPlay)
	since, ok := halted.ThinkingSinceTime()
	assert.True(t, ok)
	assert.Equal(t, start, since)
}

func TestHaltIgnoreHasNoThinkingTime(t *testing.T) {
	s := protocol.NewThinkingSince(time.Now())
	halted := s.Halt(protocol.ActionIgnore)
	_, ok := halted.ThinkingSinceTime()
	assert.False(t, ok)
}

func TestHaltPanicsWhenNotThinking(t *testing.T) {
	s := protocol.NewIdle()
	assert.Panics(t, func() { s.Halt(protocol.ActionIgnore) })
}
