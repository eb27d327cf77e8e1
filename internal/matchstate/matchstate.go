// Package matchstate holds the data that describes one running match
// (spec.md §3): the position history, the two player slots, and the
// bookkeeping the orchestrator mutates under its single lock. It owns no
// goroutines and performs no I/O itself.
package matchstate

import (
	"time"

	"github.com/google/uuid"

	"github.com/toanth/monitors/internal/clock"
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/protocol"
	"github.com/toanth/monitors/internal/transport"
)

// PlayerKind discriminates a PlayerSlot's tagged union.
type PlayerKind int

const (
	PlayerHuman PlayerKind = iota
	PlayerEngine
)

// PlayerBuilder reconstructs an engine player from scratch, used by
// HardResetPlayer to recover from a crashed subprocess without losing the
// configuration that created it (spec.md §4.5).
type PlayerBuilder func() (*transport.Engine, error)

// EngineState is the per-engine bookkeeping an active engine player
// carries: its transport handle, protocol automaton state, declared
// options, and clock.
type EngineState struct {
	DisplayName string
	Proc        *transport.Engine
	Status      protocol.Status
	Options     map[string]protocol.Option
	TC          clock.TimeControl
	Builder     PlayerBuilder

	LastInfo *protocol.SearchInfo
}

// PlayerSlot is one seat at the board: either a human (moves arrive from
// an external UI/driver and are simply applied) or an engine.
type PlayerSlot struct {
	Kind   PlayerKind
	Name   string
	Engine *EngineState // non-nil iff Kind == PlayerEngine
}

// MatchState is the full state of one match in progress (spec.md §3).
type MatchState struct {
	RunID uuid.UUID
	Event string
	Site  string

	Game oracle.Game

	InitialPosition oracle.Board
	BoardHistory    []oracle.Board // len == len(MoveHistory)+1
	MoveHistory     []oracle.Move

	White PlayerSlot
	Black PlayerSlot

	StartedAt time.Time

	Adjudication AdjudicationConfig
}

// AdjudicationConfig carries adjudication thresholds alongside the match.
// The orchestrator does not read it: Restart resets the streaks of the
// adjudicate.Adjudicator it was constructed with.
type AdjudicationConfig struct {
	DrawThreshold     protocol.Score
	DrawStreak        int
	DrawStartPly      int
	ResignThreshold   protocol.Score
	ResignStreak      int
	ResignStartPly    int
	MaxMovesUntilDraw int
}

// NewMatchState builds a fresh match state at the game's initial
// position, stamping a new RunID.
func NewMatchState(game oracle.Game, event, site string, white, black PlayerSlot) *MatchState {
	initial := game.InitialPosition()
	return &MatchState{
		RunID:           uuid.New(),
		Event:           event,
		Site:            site,
		Game:            game,
		InitialPosition: initial,
		BoardHistory:    []oracle.Board{initial},
		White:           white,
		Black:           black,
		StartedAt:       time.Now(),
	}
}

// CurrentBoard is the board after the last applied move.
func (m *MatchState) CurrentBoard() oracle.Board {
	return m.BoardHistory[len(m.BoardHistory)-1]
}

// Ply is the number of halfmoves played so far.
func (m *MatchState) Ply() int {
	return len(m.MoveHistory)
}

// Fullmove is the conventional fullmove counter (1-based, incrementing
// after Black's move).
func (m *MatchState) Fullmove() int {
	return m.Ply()/2 + 1
}

// ActivePlayer returns the slot to move.
func (m *MatchState) ActivePlayer() *PlayerSlot {
	if m.CurrentBoard().ActivePlayer() == oracle.White {
		return &m.White
	}
	return &m.Black
}

// PlayerFor returns the slot controlling c.
func (m *MatchState) PlayerFor(c oracle.Color) *PlayerSlot {
	if c == oracle.White {
		return &m.White
	}
	return &m.Black
}

// ApplyMove appends m to the history, deriving the next board via the
// game oracle. It panics if the move does not apply, since callers are
// required to validate legality first (matching spec.md's invariant that
// BoardHistory and MoveHistory never desynchronize).
func (st *MatchState) ApplyMove(mv oracle.Move) {
	next, ok := st.Game.Apply(st.CurrentBoard(), mv)
	if !ok {
		panic("matchstate: ApplyMove called with an illegal move")
	}
	st.MoveHistory = append(st.MoveHistory, mv)
	st.BoardHistory = append(st.BoardHistory, next)
}

// UndoHalfmoves removes the last n plies, restoring both histories to
// their prior length. n is clamped to the available history.
func (st *MatchState) UndoHalfmoves(n int) {
	if n > len(st.MoveHistory) {
		n = len(st.MoveHistory)
	}
	st.MoveHistory = st.MoveHistory[:len(st.MoveHistory)-n]
	st.BoardHistory = st.BoardHistory[:len(st.BoardHistory)-n]
}

// FlipPlayers swaps the White and Black slots in place, used by
// RestartFlippedColors.
func (st *MatchState) FlipPlayers() {
	st.White, st.Black = st.Black, st.White
}
