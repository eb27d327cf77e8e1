// Package adjudicate implements score-based draw and resignation
// adjudication (spec.md §4.4), grounded on the streak-counter design in
// original_source/monitors/src/play/adjudication.rs. It is pure decision
// logic: given a stream of per-color scores it decides whether a match
// should be called early, but it never touches engines or match state
// directly.
package adjudicate

import (
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/protocol"
)

// Verdict is the outcome of one adjudication check.
type Verdict int

const (
	// VerdictContinue means no adjudication fired; play continues.
	VerdictContinue Verdict = iota
	// VerdictDraw means the match should be scored a draw.
	VerdictDraw
	// VerdictResign means the losing side (the one whose score crossed
	// the resignation threshold) should resign.
	VerdictResign
)

// ScoreAdjudication tracks a single streak-based rule: a condition must
// hold for RequiredStreak consecutive evaluated plies, not earlier than
// StartAfterPly, before it fires.
type ScoreAdjudication struct {
	Threshold      protocol.Score
	RequiredStreak int
	StartAfterPly  int

	counter int
}

// Reset clears the streak counter, used when starting a new match or
// when the condition fails to hold on some ply.
func (a *ScoreAdjudication) Reset() {
	a.counter = 0
}

// observe advances the streak counter for one ply where holds reports
// whether this rule's condition was true on that ply. It reports whether
// the rule has now fired.
func (a *ScoreAdjudication) observe(ply int, holds bool) bool {
	if ply < a.StartAfterPly {
		a.counter = 0
		return false
	}
	if !holds {
		a.counter = 0
		return false
	}
	a.counter++
	return a.counter >= a.RequiredStreak
}

// Adjudicator bundles the resignation and draw rules plus the
// max-moves-until-draw cutoff, and decides per spec.md §4.4's ordering:
// the max-moves-until-draw cutoff is checked unconditionally once the
// fullmove count reaches it, then the draw rule, then the resignation
// rule — none of the three is gated behind another firing.
type Adjudicator struct {
	Resign            *ScoreAdjudication
	Draw              *ScoreAdjudication
	MaxMovesUntilDraw int // 0 means unbounded
	HumanPresent      bool
}

// Observe evaluates the cutoff and both rules for one ply given the two
// engines' most recent scores (each from its own engine's point of view,
// positive when that engine's side is better) and the
// current fullmove number. It returns the winning color alongside
// VerdictResign; the color is meaningless for any other verdict. Either
// score may be absent (hasWhite/hasBlack false) when an engine's last
// `info` line carried no score; adjudication is skipped entirely in that
// case, matching spec.md §4.4's "adjudication requires both sides to
// have reported a score this move" rule. Human-controlled matches never
// adjudicate.
func (adj *Adjudicator) Observe(ply int, fullmove int, whiteScore, blackScore protocol.Score, hasWhite, hasBlack bool) (Verdict, oracle.Color) {
	if adj.HumanPresent {
		return VerdictContinue, oracle.White
	}
	if adj.MaxMovesUntilDraw != 0 && fullmove >= adj.MaxMovesUntilDraw {
		return VerdictDraw, oracle.White
	}
	if !hasWhite || !hasBlack {
		if adj.Resign != nil {
			adj.Resign.Reset()
		}
		if adj.Draw != nil {
			adj.Draw.Reset()
		}
		return VerdictContinue, oracle.White
	}

	if adj.Draw != nil {
		drawHolds := whiteScore.Abs() < adj.Draw.Threshold && blackScore.Abs() < adj.Draw.Threshold
		if adj.Draw.observe(ply, drawHolds) {
			return VerdictDraw, oracle.White
		}
	}

	if adj.Resign != nil {
		var winner oracle.Color
		var resignHolds bool
		switch {
		case whiteScore > adj.Resign.Threshold && blackScore < -adj.Resign.Threshold:
			winner, resignHolds = oracle.White, true
		case whiteScore < -adj.Resign.Threshold && blackScore > adj.Resign.Threshold:
			winner, resignHolds = oracle.Black, true
		}
		if adj.Resign.observe(ply, resignHolds) {
			return VerdictResign, winner
		}
	}

	return VerdictContinue, oracle.White
}
