// Package oracletest provides a deliberately trivial, non-chess
// implementation of oracle.Game for exercising the orchestrator and
// protocol packages in tests without depending on a real game engine.
//
// The game is "countdown": a shared counter starts at 0, each move adds
// 1, 2, or 3 to it, and the player who moves the counter to exactly the
// configured target wins. Moving past the target is illegal.
package oracletest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toanth/monitors/internal/oracle"
)

// Move is a single "incN" move.
type Move struct{ Delta int }

// IsNull implements oracle.Move.
func (m Move) IsNull() bool { return m.Delta == 0 }

// Board is the countdown position: the running count and whose turn it is.
type Board struct {
	Count  int
	Target int
	Mover  oracle.Color
}

// ActivePlayer implements oracle.Board.
func (b Board) ActivePlayer() oracle.Color { return b.Mover }

// ZobristKey implements oracle.Board; the count combined with the side to
// move is already a perfect hash for this toy game.
func (b Board) ZobristKey() uint64 { return uint64(b.Count)<<1 | uint64(b.Mover) }

// FEN implements oracle.Board with a made-up but stable textual form.
func (b Board) FEN() string {
	return fmt.Sprintf("%d/%d %s", b.Count, b.Target, b.Mover)
}

// Game implements oracle.Game for the countdown toy game.
type Game struct {
	Target int
}

// New returns a countdown game with the given target count.
func New(target int) *Game { return &Game{Target: target} }

func (g *Game) Name() string { return "countdown" }

func (g *Game) InitialPosition() oracle.Board {
	return Board{Count: 0, Target: g.Target, Mover: oracle.White}
}

func (g *Game) FromFEN(fen string) (oracle.Board, error) {
	var count, target int
	var mover string
	if _, err := fmt.Sscanf(fen, "%d/%d %s", &count, &target, &mover); err != nil {
		return nil, fmt.Errorf("invalid countdown fen %q: %w", fen, err)
	}
	c := oracle.White
	if mover == "b" || mover == "Black" {
		c = oracle.Black
	}
	return Board{Count: count, Target: target, Mover: c}, nil
}

func (g *Game) ParseMove(text string, b oracle.Board) (oracle.Move, error) {
	text = strings.TrimPrefix(text, "inc")
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("invalid countdown move %q: %w", text, err)
	}
	m := Move{Delta: n}
	if !g.IsPseudolegal(m, b) {
		return nil, fmt.Errorf("illegal countdown move %q", text)
	}
	return m, nil
}

func (g *Game) FormatMove(m oracle.Move, b oracle.Board) string {
	mv := m.(Move)
	return fmt.Sprintf("inc%d", mv.Delta)
}

func (g *Game) IsPseudolegal(m oracle.Move, b oracle.Board) bool {
	mv, ok := m.(Move)
	if !ok {
		return false
	}
	board := b.(Board)
	return mv.Delta >= 1 && mv.Delta <= 3 && board.Count+mv.Delta <= board.Target
}

func (g *Game) Apply(b oracle.Board, m oracle.Move) (oracle.Board, bool) {
	if !g.IsPseudolegal(m, b) {
		return nil, false
	}
	mv := m.(Move)
	board := b.(Board)
	return Board{
		Count:  board.Count + mv.Delta,
		Target: board.Target,
		Mover:  board.Mover.Other(),
	}, true
}

// CanReasonablyWin is always true; this toy game has no material concept.
func (g *Game) CanReasonablyWin(b oracle.Board, c oracle.Color) bool { return true }

// MatchResultSlow declares the player who just moved the winner once the
// counter hits the target, and has no other terminal condition.
func (g *Game) MatchResultSlow(history []oracle.Board) *oracle.TerminalResult {
	last := history[len(history)-1].(Board)
	if last.Count != last.Target {
		return nil
	}
	outcome := oracle.OutcomeBlackWins
	if last.Mover == oracle.Black {
		outcome = oracle.OutcomeWhiteWins
	}
	return &oracle.TerminalResult{Outcome: outcome, Reason: oracle.ReasonNormal}
}
