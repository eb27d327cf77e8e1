// Package clock implements time-control accounting and outbound `go` line
// serialization (spec.md §4.3). It has no knowledge of engines, matches, or
// protocol states; it is pure data plus the arithmetic spec.md §4.3 pins
// down exactly.
package clock

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/toanth/monitors/internal/oracle"
)

// Infinite is the sentinel duration meaning "unconstrained on this axis".
const Infinite = time.Duration(math.MaxInt64)

// MaxCount is the sentinel integer meaning "unconstrained on this axis",
// used for depth and mate-in-N limits. The nodes axis uses math.MaxUint64
// as its sentinel instead.
const MaxCount = math.MaxInt64

// TimeControl is one player's clock: remaining time, per-move increment,
// and an optional classical "moves to go" countdown (0 means sudden
// death).
type TimeControl struct {
	Remaining   time.Duration
	Increment   time.Duration
	MovesToGo   int
}

// InfiniteTC is a clock with no practical limit, used for human players
// and engines with no configured time control.
func InfiniteTC() TimeControl {
	return TimeControl{Remaining: Infinite}
}

// Update applies the post-move accounting rule from spec.md §4.3:
// remaining -= elapsed - increment; if movesToGo was 1, the control
// resets using original's remaining and moves-to-go; otherwise movesToGo
// decrements if it was already counting down.
func (tc *TimeControl) Update(elapsed time.Duration, original TimeControl) {
	if tc.Remaining == Infinite {
		return
	}
	tc.Remaining = tc.Remaining - elapsed + tc.Increment
	switch {
	case tc.MovesToGo == 1:
		tc.MovesToGo = original.MovesToGo
		tc.Remaining += original.Remaining
	case tc.MovesToGo != 0:
		tc.MovesToGo--
	}
}

// SearchLimit is everything that can bound one engine search (spec.md
// §3). MaxCount/Infinite sentinels mean "unconstrained on this axis".
type SearchLimit struct {
	TC        TimeControl
	FixedTime time.Duration // per-move cap
	Depth     int
	Nodes     uint64
	Mate      int
}

// InfiniteLimit is a SearchLimit with every axis unconstrained.
func InfiniteLimit() SearchLimit {
	return SearchLimit{
		TC:        InfiniteTC(),
		FixedTime: Infinite,
		Depth:     MaxCount,
		Nodes:     math.MaxUint64,
		Mate:      MaxCount,
	}
}

// MaxMoveTime is the larger of the remaining clock time and the fixed
// per-move cap, used by the flag-fall test.
func (l SearchLimit) MaxMoveTime() time.Duration {
	if l.TC.Remaining > l.FixedTime {
		return l.TC.Remaining
	}
	return l.FixedTime
}

// FlagFell implements the flag-fall test of spec.md §4.3: elapsed time
// strictly exceeds the larger of the clock's remaining time and the fixed
// move-time cap, plus a grace margin.
func FlagFell(limit SearchLimit, elapsed, margin time.Duration) bool {
	max := limit.MaxMoveTime()
	if max == Infinite {
		return false
	}
	return elapsed > max+margin
}

// BuildGoLine serializes an outbound `go` line per spec.md §4.3: only
// finite fields are included; wtime/btime are omitted when infinite,
// winc/binc when zero, and nodes/depth/movetime when at their sentinel.
// If every field would be omitted, the result is exactly "go infinite".
func BuildGoLine(limit SearchLimit, white, black TimeControl) string {
	var parts []string
	if white.Remaining != Infinite {
		parts = append(parts, fmt.Sprintf("wtime %d", white.Remaining.Milliseconds()))
	}
	if white.Increment != 0 {
		parts = append(parts, fmt.Sprintf("winc %d", white.Increment.Milliseconds()))
	}
	if black.Remaining != Infinite {
		parts = append(parts, fmt.Sprintf("btime %d", black.Remaining.Milliseconds()))
	}
	if black.Increment != 0 {
		parts = append(parts, fmt.Sprintf("binc %d", black.Increment.Milliseconds()))
	}
	if white.MovesToGo != 0 {
		parts = append(parts, fmt.Sprintf("movestogo %d", white.MovesToGo))
	} else if black.MovesToGo != 0 {
		parts = append(parts, fmt.Sprintf("movestogo %d", black.MovesToGo))
	}
	if limit.Nodes != math.MaxUint64 {
		parts = append(parts, fmt.Sprintf("nodes %d", limit.Nodes))
	}
	if limit.Depth != MaxCount {
		parts = append(parts, fmt.Sprintf("depth %d", limit.Depth))
	}
	if limit.FixedTime != Infinite {
		parts = append(parts, fmt.Sprintf("movetime %d", limit.FixedTime.Milliseconds()))
	}
	if len(parts) == 0 {
		return "go infinite"
	}
	return "go " + strings.Join(parts, " ")
}

// TimeControlFor returns the infinite clock for a color with no
// configured limit; present for symmetry with oracle.Color-indexed
// lookups used throughout the orchestrator.
func TimeControlFor(limits map[oracle.Color]TimeControl, c oracle.Color) TimeControl {
	if tc, ok := limits[c]; ok {
		return tc
	}
	return InfiniteTC()
}
