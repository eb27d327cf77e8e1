// Package orchestrator is the match supervisor itself (spec.md §4.5): a
// single mutex-guarded owner of match state that is the only writer of
// outbound protocol lines and the only reader of match-ending events. It
// generalizes a single-process engine-pool model from "one engine" to
// "two players, one of which may be human", and follows the Client type in
// original_source/monitors/src/play/client.rs for its method surface.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/adjudicate"
	"github.com/toanth/monitors/internal/clock"
	"github.com/toanth/monitors/internal/matchstate"
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/protocol"
	"github.com/toanth/monitors/internal/registry"
	"github.com/toanth/monitors/internal/sink"
)

// TimeMargin is the grace period sized for clock.FlagFell's margin,
// matching the original source's fixed allowance for scheduling jitter.
// The orchestrator does not run the flag-fall test itself: applying a
// move only updates the mover's clock, and a match ends on time only
// through LoseOnTime.
const TimeMargin = 50 * time.Millisecond

// Orchestrator owns one match end to end. Every exported method takes
// the lock for its full duration, including the outbound writes it
// performs, so that reader goroutines (see reader.go) never observe or
// mutate state mid-transition.
type Orchestrator struct {
	mu sync.Mutex

	match       *matchstate.MatchState
	sinks       sink.OutputSink
	log         *zap.Logger
	adjudicator *adjudicate.Adjudicator
	names       *registry.NameSet

	limits         map[oracle.Color]clock.SearchLimit
	originalLimits map[oracle.Color]clock.SearchLimit

	ctx    context.Context
	cancel context.CancelFunc
	done   bool
}

// New builds an Orchestrator around an already-constructed match state
// and spawns/handshakes every engine slot.
func New(match *matchstate.MatchState, limits map[oracle.Color]clock.SearchLimit, adj *adjudicate.Adjudicator, sinks sink.OutputSink, log *zap.Logger, names *registry.NameSet) (*Orchestrator, error) {
	ctx, cancel := context.WithCancel(context.Background())
	orig := make(map[oracle.Color]clock.SearchLimit, len(limits))
	for c, l := range limits {
		orig[c] = l
	}
	o := &Orchestrator{
		match:          match,
		sinks:          sinks,
		log:            log,
		adjudicator:    adj,
		names:          names,
		limits:         limits,
		originalLimits: orig,
		ctx:            ctx,
		cancel:         cancel,
	}

	for _, c := range []oracle.Color{oracle.White, oracle.Black} {
		slot := match.PlayerFor(c)
		if slot.Kind != matchstate.PlayerEngine {
			continue
		}
		if err := o.initEngine(slot.Engine); err != nil {
			cancel()
			return nil, err
		}
	}
	o.sinks.Show(match.CurrentBoard())
	return o, nil
}

// initEngine spawns (if not already running), handshakes, and starts the
// reader goroutine for one engine slot.
func (o *Orchestrator) initEngine(es *matchstate.EngineState) error {
	if es.Proc == nil {
		proc, err := es.Builder()
		if err != nil {
			return &matchstate.ErrInitializationFailed{Engine: es.DisplayName, Reason: err.Error()}
		}
		es.Proc = proc
	}
	es.Status = protocol.NewWaitingUgiOk()
	if err := o.handshake(es); err != nil {
		return err
	}
	es.Proc.Reader(o.ctx, o.makeReaderHandler(es), o.makeReaderErrorHandler(es))
	return nil
}

// handshake performs the synchronous `uci`/`uciok` exchange, recording
// every `option` line it sees along the way (`id` lines are skipped). It
// runs before the
// async reader goroutine starts, so there is no concurrent access to es
// here.
func (o *Orchestrator) handshake(es *matchstate.EngineState) error {
	if es.Options == nil {
		es.Options = make(map[string]protocol.Option)
	}
	if err := es.Proc.WriteLine("uci"); err != nil {
		return &matchstate.ErrTransportWrite{Engine: es.DisplayName, Err: err}
	}
	o.sinks.WriteUgiOutput(es.DisplayName, "uci")

	for {
		line, err := es.Proc.ReadLine()
		if err != nil {
			return &matchstate.ErrInitializationFailed{Engine: es.DisplayName, Reason: err.Error()}
		}
		o.sinks.WriteUgiInput(es.DisplayName, line)
		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "uciok", "ugiok":
			es.Status = protocol.NewIdle()
			return nil
		case "option":
			opt, err := protocol.ParseOption(tokens[1:])
			if err != nil {
				o.sinks.DisplayMessage(fmt.Sprintf("%s: %v", es.DisplayName, err))
			}
			es.Options[opt.Name] = opt
		case "id":
			// name/author metadata, informational only
		}
	}
}

// StartThinking sends `position` + `go` for the side to move, if that
// side is an engine. It is a no-op for human-controlled seats.
func (o *Orchestrator) StartThinking() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startThinkingLocked()
}

func (o *Orchestrator) startThinkingLocked() error {
	slot := o.match.ActivePlayer()
	if slot.Kind != matchstate.PlayerEngine {
		return nil
	}
	es := slot.Engine
	if es.Status.Kind != protocol.Idle {
		return nil
	}

	posLine := buildPositionLine(o.match)
	if err := es.Proc.WriteLine(posLine); err != nil {
		return &matchstate.ErrTransportWrite{Engine: es.DisplayName, Err: err}
	}
	o.sinks.WriteUgiOutput(es.DisplayName, posLine)

	mover := o.match.CurrentBoard().ActivePlayer()
	limit := o.limits[mover]
	goLine := clock.BuildGoLine(limit, o.colorTC(oracle.White), o.colorTC(oracle.Black))
	if err := es.Proc.WriteLine(goLine); err != nil {
		return &matchstate.ErrTransportWrite{Engine: es.DisplayName, Err: err}
	}
	o.sinks.WriteUgiOutput(es.DisplayName, goLine)

	es.Status = protocol.NewThinkingSince(time.Now())
	return nil
}

func (o *Orchestrator) colorTC(c oracle.Color) clock.TimeControl {
	return o.limits[c].TC
}

// StopThinking sends `stop` to the side to move if it is an engine
// currently searching, transitioning it into Halt(action).
func (o *Orchestrator) StopThinking(action protocol.BestMoveAction) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	slot := o.match.ActivePlayer()
	if slot.Kind != matchstate.PlayerEngine {
		return nil
	}
	es := slot.Engine
	if es.Status.Kind != protocol.ThinkingSince {
		return nil
	}
	if err := es.Proc.WriteLine("stop"); err != nil {
		return &matchstate.ErrTransportWrite{Engine: es.DisplayName, Err: err}
	}
	o.sinks.WriteUgiOutput(es.DisplayName, "stop")
	es.Status = es.Status.Halt(action)
	return nil
}

// PlayMove parses text against the current position and, if legal,
// applies it through playMoveLocked.
func (o *Orchestrator) PlayMove(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	board := o.match.CurrentBoard()
	mv, err := o.match.Game.ParseMove(text, board)
	if err != nil {
		return &matchstate.ErrInvalidMove{Text: text, Err: err}
	}
	if !o.match.Game.IsPseudolegal(mv, board) {
		return &matchstate.ErrInvalidMove{Text: text, Err: fmt.Errorf("not pseudolegal")}
	}
	return o.playMoveLocked(mv)
}

// playMoveLocked charges the mover's search time to its clock, applies
// mv, ends the match if the oracle or the adjudicator says so, and
// otherwise starts the next search; callers must hold o.mu.
func (o *Orchestrator) playMoveLocked(mv oracle.Move) error {
	mover := o.match.CurrentBoard().ActivePlayer()
	movedSlot := o.match.PlayerFor(mover)

	if movedSlot.Kind == matchstate.PlayerEngine {
		es := movedSlot.Engine
		if start, ok := es.Status.ThinkingSinceTime(); ok {
			elapsed := time.Since(start)
			tc := o.limits[mover].TC
			tc.Update(elapsed, o.originalLimits[mover].TC)
			lim := o.limits[mover]
			lim.TC = tc
			o.limits[mover] = lim
		}
		es.Status = protocol.NewIdle()
	}

	if !o.match.Game.IsPseudolegal(mv, o.match.CurrentBoard()) {
		return &matchstate.ErrInvalidMove{Text: o.match.Game.FormatMove(mv, o.match.CurrentBoard()), Err: fmt.Errorf("illegal once applied")}
	}
	o.match.ApplyMove(mv)
	o.sinks.Show(o.match.CurrentBoard())

	if result := o.match.Game.MatchResultSlow(o.match.BoardHistory); result != nil {
		return o.gameOverLocked(describeOutcome(result.Outcome), describeReason(result.Reason))
	}

	if verdict := o.runAdjudicationLocked(); verdict != adjudicate.VerdictContinue {
		return nil
	}

	return o.startThinkingLocked()
}

func (o *Orchestrator) runAdjudicationLocked() adjudicate.Verdict {
	if o.adjudicator == nil {
		return adjudicate.VerdictContinue
	}
	white, hasWhite := scoreFor(o.match.PlayerFor(oracle.White))
	black, hasBlack := scoreFor(o.match.PlayerFor(oracle.Black))
	verdict, winner := o.adjudicator.Observe(o.match.Ply(), o.match.Fullmove(), white, black, hasWhite, hasBlack)
	switch verdict {
	case adjudicate.VerdictDraw:
		o.gameOverLocked("1/2-1/2", "adjudicated draw")
	case adjudicate.VerdictResign:
		result := "0-1"
		if winner == oracle.White {
			result = "1-0"
		}
		o.gameOverLocked(result, "adjudicated resignation")
	}
	return verdict
}

func scoreFor(slot *matchstate.PlayerSlot) (protocol.Score, bool) {
	if slot.Kind != matchstate.PlayerEngine || slot.Engine.LastInfo == nil {
		return 0, false
	}
	return slot.Engine.LastInfo.Score, true
}

// ChangePositionTo replaces the current position with board, clearing
// move history back to a fresh starting point at that position.
func (o *Orchestrator) ChangePositionTo(board oracle.Board) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.match.InitialPosition = board
	o.match.BoardHistory = []oracle.Board{board}
	o.match.MoveHistory = nil
	o.sinks.Show(board)
}

// UndoHalfmoves removes the last n plies.
func (o *Orchestrator) UndoHalfmoves(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.match.UndoHalfmoves(n)
	o.sinks.Show(o.match.CurrentBoard())
}

// FlipPlayers swaps which color each player slot controls.
func (o *Orchestrator) FlipPlayers() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.match.FlipPlayers()
	wl, bl := o.limits[oracle.White], o.limits[oracle.Black]
	o.limits[oracle.White], o.limits[oracle.Black] = bl, wl
}

// SetPlayer replaces a seat entirely with a new slot, releasing the old
// engine's display name and tearing down its process if it had one.
func (o *Orchestrator) SetPlayer(c oracle.Color, slot matchstate.PlayerSlot) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	old := o.match.PlayerFor(c)
	if old.Kind == matchstate.PlayerEngine && old.Engine.Proc != nil {
		old.Engine.Proc.Close()
		if o.names != nil {
			o.names.Release(old.Engine.DisplayName)
		}
	}
	*o.match.PlayerFor(c) = slot
	if slot.Kind == matchstate.PlayerEngine {
		return o.initEngine(slot.Engine)
	}
	return nil
}

// HardResetPlayer kills and respawns color's engine from its stored
// builder, replaying the handshake, used to recover from a crashed
// subprocess without losing the original configuration.
func (o *Orchestrator) HardResetPlayer(c oracle.Color) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	slot := o.match.PlayerFor(c)
	if slot.Kind != matchstate.PlayerEngine {
		return nil
	}
	es := slot.Engine
	if es.Proc != nil {
		es.Proc.Close()
		es.Proc = nil
	}
	return o.initEngine(es)
}

// Restart begins a new match at the game's initial position, keeping the
// same player slots and limits.
func (o *Orchestrator) Restart() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restartLocked()
}

func (o *Orchestrator) restartLocked() {
	initial := o.match.Game.InitialPosition()
	o.match.InitialPosition = initial
	o.match.BoardHistory = []oracle.Board{initial}
	o.match.MoveHistory = nil
	for c, l := range o.originalLimits {
		o.limits[c] = l
	}
	if o.adjudicator != nil {
		if o.adjudicator.Draw != nil {
			o.adjudicator.Draw.Reset()
		}
		if o.adjudicator.Resign != nil {
			o.adjudicator.Resign.Reset()
		}
	}
	o.sinks.Show(initial)
}

// RestartFlippedColors restarts the match and swaps player colors.
func (o *Orchestrator) RestartFlippedColors() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.match.FlipPlayers()
	o.restartLocked()
}

// AbortMatch ends the match immediately with no winner, without
// consulting the game oracle or adjudicator.
func (o *Orchestrator) AbortMatch() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gameOverLocked("*", (&matchstate.ErrAbortedByUser{}).Error())
}

// LoseOnTime ends the match on a flag fall for c.
func (o *Orchestrator) LoseOnTime(c oracle.Color) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result := "1-0"
	if c == oracle.White {
		result = "0-1"
	}
	o.gameOverLocked(result, (&matchstate.ErrTimeUp{Player: c.String()}).Error())
}

// GameOver announces a terminal result and sends `stop` to any engine
// still searching, leaving it in Halt(Ignore); the engine processes keep
// running.
func (o *Orchestrator) GameOver(result, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gameOverLocked(result, reason)
}

func (o *Orchestrator) gameOverLocked(result, reason string) error {
	o.sinks.InformGameOver(result, reason)
	for _, c := range []oracle.Color{oracle.White, oracle.Black} {
		slot := o.match.PlayerFor(c)
		if slot.Kind == matchstate.PlayerEngine && slot.Engine.Proc != nil {
			if slot.Engine.Status.Kind == protocol.ThinkingSince {
				slot.Engine.Proc.WriteLine("stop")
				slot.Engine.Status = slot.Engine.Status.Halt(protocol.ActionIgnore)
			}
		}
	}
	return nil
}

// QuitProgram tears down every engine process and cancels the reader
// goroutines. It is idempotent.
func (o *Orchestrator) QuitProgram() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return
	}
	o.done = true
	for _, c := range []oracle.Color{oracle.White, oracle.Black} {
		slot := o.match.PlayerFor(c)
		if slot.Kind == matchstate.PlayerEngine && slot.Engine.Proc != nil {
			slot.Engine.Proc.Close()
		}
	}
	o.cancel()
}

func describeOutcome(o oracle.Outcome) string {
	switch o {
	case oracle.OutcomeWhiteWins:
		return "1-0"
	case oracle.OutcomeBlackWins:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

func describeReason(r oracle.TerminalReason) string {
	switch r {
	case oracle.ReasonRepetition:
		return "repetition"
	case oracle.ReasonFiftyMove:
		return "fifty-move rule"
	case oracle.ReasonInsufficientMaterial:
		return "insufficient material"
	default:
		return "normal"
	}
}

func buildPositionLine(m *matchstate.MatchState) string {
	moves := m.MoveHistory
	if len(moves) == 0 {
		return fmt.Sprintf("position fen %s", m.InitialPosition.FEN())
	}
	line := fmt.Sprintf("position fen %s moves", m.InitialPosition.FEN())
	board := m.InitialPosition
	for _, mv := range moves {
		line += " " + m.Game.FormatMove(mv, board)
		next, ok := m.Game.Apply(board, mv)
		if !ok {
			break
		}
		board = next
	}
	return line
}

func tokenize(line string) []string {
	return strings.Fields(line)
}
