package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toanth/monitors/internal/clock"
)

func TestTimeControlUpdateSuddenDeath(t *testing.T) {
	tc := clock.TimeControl{Remaining: 10 * time.Second, Increment: 2 * time.Second}
	original := tc
	tc.Update(3*time.Second, original)
	assert.Equal(t, 9*time.Second, tc.Remaining)
}

func TestTimeControlUpdateMovesToGoReset(t *testing.T) {
	original := clock.TimeControl{Remaining: 60 * time.Second, MovesToGo: 40}
	tc := clock.TimeControl{Remaining: 5 * time.Second, MovesToGo: 1}
	tc.Update(2*time.Second, original)
	assert.Equal(t, 40, tc.MovesToGo)
	assert.Equal(t, 5*time.Second-2*time.Second+60*time.Second, tc.Remaining)
}

func TestTimeControlUpdateMovesToGoDecrement(t *testing.T) {
	original := clock.TimeControl{Remaining: 60 * time.Second, MovesToGo: 40}
	tc := clock.TimeControl{Remaining: 30 * time.Second, MovesToGo: 5}
	tc.Update(1*time.Second, original)
	assert.Equal(t, 4, tc.MovesToGo)
}

func TestTimeControlUpdateInfiniteIsNoop(t *testing.T) {
	tc := clock.InfiniteTC()
	tc.Update(time.Hour, tc)
	assert.Equal(t, clock.Infinite, tc.Remaining)
}

func TestFlagFellRespectsMargin(t *testing.T) {
	limit := clock.SearchLimit{TC: clock.TimeControl{Remaining: time.Second}, FixedTime: 0}
	assert.False(t, clock.FlagFell(limit, time.Second, 100*time.Millisecond))
	assert.True(t, clock.FlagFell(limit, 2*time.Second, 100*time.Millisecond))
}

func TestFlagFellNeverFallsWhenInfinite(t *testing.T) {
	limit := clock.InfiniteLimit()
	assert.False(t, clock.FlagFell(limit, 365*24*time.Hour, 0))
}

func TestBuildGoLineOmitsInfiniteAndZeroFields(t *testing.T) {
	limit := clock.InfiniteLimit()
	line := clock.BuildGoLine(limit, clock.InfiniteTC(), clock.InfiniteTC())
	assert.Equal(t, "go infinite", line)
}

func TestBuildGoLineIncludesConfiguredFields(t *testing.T) {
	white := clock.TimeControl{Remaining: 60_000 * time.Millisecond, Increment: 1000 * time.Millisecond}
	black := clock.TimeControl{Remaining: 59_000 * time.Millisecond}
	limit := clock.SearchLimit{TC: white, FixedTime: clock.Infinite, Depth: clock.MaxCount, Nodes: ^uint64(0), Mate: clock.MaxCount}
	line := clock.BuildGoLine(limit, white, black)
	assert.Contains(t, line, "wtime 60000")
	assert.Contains(t, line, "winc 1000")
	assert.Contains(t, line, "btime 59000")
	assert.NotContains(t, line, "binc")
	assert.NotContains(t, line, "movetime")
}
