package orchestrator

import (
	"fmt"
	"strings"

	"github.com/toanth/monitors/internal/matchstate"
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/protocol"
)

// makeReaderHandler returns the per-line callback installed on an
// engine's transport reader goroutine. Every call takes the
// orchestrator's lock for the duration of processing one line, matching
// spec.md §4.5's rule that inbound lines are serialized against all
// other mutation. Using the orchestrator's own context for cancellation
// (rather than a weak reference back to the orchestrator) is sufficient
// here because nothing but this goroutine and the process-level cleanup
// path ever holds a reference to the engine handle.
func (o *Orchestrator) makeReaderHandler(es *matchstate.EngineState) func(string) bool {
	return func(line string) bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.sinks.WriteUgiInput(es.DisplayName, line)
		o.handleLineLocked(es, line)
		return !o.done
	}
}

func (o *Orchestrator) makeReaderErrorHandler(es *matchstate.EngineState) func(error) {
	return func(err error) {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.done {
			return
		}
		o.sinks.DisplayMessage((&matchstate.ErrTransportEOF{Engine: es.DisplayName, Err: err}).Error())
	}
}

// handleLineLocked dispatches one inbound line against es's current
// automaton state. Caller must hold o.mu.
func (o *Orchestrator) handleLineLocked(es *matchstate.EngineState, line string) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return
	}
	verb := protocol.Verb(tokens[0])

	if !es.Status.Allowed(verb) {
		if es.Status.SilentlyDropped(verb) {
			return
		}
		o.sinks.DisplayMessage((&matchstate.ErrProtocolViolation{
			Engine: es.DisplayName,
			Verb:   string(verb),
			State:  es.Status.String(),
		}).Error())
		return
	}

	switch verb {
	case protocol.VerbInfo:
		o.handleInfoLocked(es, tokens[1:])
	case protocol.VerbBestmove:
		o.handleBestmoveLocked(es, tokens[1:])
	case protocol.VerbReadyOk:
		o.handleReadyOkLocked(es)
	}
}

func (o *Orchestrator) handleInfoLocked(es *matchstate.EngineState, tokens []string) {
	mover := o.match.CurrentBoard().ActivePlayer()
	result, err := protocol.ParseInfo(tokens, o.match.Game, o.match.CurrentBoard(), false, mover)
	if err != nil {
		o.sinks.DisplayMessage((&matchstate.ErrEngineError{Engine: es.DisplayName, Err: err}).Error())
		return
	}
	if result.HasStringMsg {
		o.sinks.DisplayMessage(fmt.Sprintf("%s: %s", es.DisplayName, result.StringMsg))
		return
	}
	es.LastInfo = result.Info
	o.sinks.UpdateEngineInfo(es.DisplayName, formatInfo(result.Info))
}

func formatInfo(info *protocol.SearchInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "depth %d score %d nodes %d", info.Depth, info.Score, info.Nodes)
	if len(info.PV) > 0 {
		b.WriteString(" pv")
		for range info.PV {
			b.WriteString(" ...")
		}
	}
	return b.String()
}

func (o *Orchestrator) handleBestmoveLocked(es *matchstate.EngineState, tokens []string) {
	switch es.Status.Kind {
	case protocol.Halt:
		if es.Status.Action == protocol.HaltIgnore {
			es.Status = protocol.NewIdle()
			return
		}
	case protocol.Ping, protocol.ThinkingSince:
	default:
		return
	}

	if len(tokens) == 0 {
		es.Status = protocol.NewIdle()
		o.sinks.DisplayMessage((&matchstate.ErrProtocolViolation{Engine: es.DisplayName, Verb: "bestmove", State: "missing move text"}).Error())
		return
	}
	moveText := tokens[0]
	board := o.match.CurrentBoard()
	mv, err := o.match.Game.ParseMove(moveText, board)
	if err != nil {
		es.Status = protocol.NewIdle()
		o.sinks.DisplayMessage((&matchstate.ErrInvalidMove{Text: moveText, Err: err}).Error())
		return
	}
	// playMoveLocked reads the search start time from es.Status to charge
	// the mover's clock, then sets es Idle.
	if err := o.playMoveLocked(mv); err != nil {
		o.sinks.DisplayMessage(err.Error())
	}
}

func (o *Orchestrator) handleReadyOkLocked(es *matchstate.EngineState) {
	switch es.Status.Kind {
	case protocol.Sync:
		es.Status = protocol.NewIdle()
	case protocol.Ping:
		since, _ := es.Status.ThinkingSinceTime()
		es.Status = protocol.NewThinkingSince(since)
	}
}

// sendIsReady is never called from any public Orchestrator method, just
// as the original source never wired it into a caller; it is kept here
// because the Sync/Ping states it produces are still part of the
// automaton other engines can legally occupy.
func (o *Orchestrator) sendIsReady(c oracle.Color) error {
	slot := o.match.PlayerFor(c)
	if slot.Kind != matchstate.PlayerEngine {
		return nil
	}
	es := slot.Engine
	if err := es.Proc.WriteLine("isready"); err != nil {
		return &matchstate.ErrTransportWrite{Engine: es.DisplayName, Err: err}
	}
	o.sinks.WriteUgiOutput(es.DisplayName, "isready")
	switch es.Status.Kind {
	case protocol.Idle:
		es.Status = protocol.NewSync()
	case protocol.ThinkingSince:
		es.Status = protocol.NewPing(es.Status.Since)
	}
	return nil
}
