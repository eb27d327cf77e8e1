package matchstate

import "fmt"

// ErrTransportWrite wraps a failure writing a line to an engine's stdin
// (spec.md §7's TransportWrite member).
type ErrTransportWrite struct {
	Engine string
	Err    error
}

func (e *ErrTransportWrite) Error() string {
	return fmt.Sprintf("write to engine %q failed: %v", e.Engine, e.Err)
}
func (e *ErrTransportWrite) Unwrap() error { return e.Err }

// ErrTransportEOF is raised when an engine's stdout closes unexpectedly
// (spec.md §7's TransportEOF member).
type ErrTransportEOF struct {
	Engine string
	Err    error
}

func (e *ErrTransportEOF) Error() string {
	return fmt.Sprintf("engine %q closed its output: %v", e.Engine, e.Err)
}
func (e *ErrTransportEOF) Unwrap() error { return e.Err }

// ErrProtocolViolation means an engine sent a verb not legal for its
// current automaton state (spec.md §4.2/§7).
type ErrProtocolViolation struct {
	Engine string
	Verb   string
	State  string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("engine %q sent %q while %s", e.Engine, e.Verb, e.State)
}

// ErrInitializationFailed means an engine never completed its ugi/uci
// handshake.
type ErrInitializationFailed struct {
	Engine string
	Reason string
}

func (e *ErrInitializationFailed) Error() string {
	return fmt.Sprintf("engine %q failed to initialize: %s", e.Engine, e.Reason)
}

// ErrInvalidMove means a move text (from an engine bestmove or a user
// command) did not parse or was not legal in the current position.
type ErrInvalidMove struct {
	Text string
	Err  error
}

func (e *ErrInvalidMove) Error() string { return fmt.Sprintf("invalid move %q: %v", e.Text, e.Err) }
func (e *ErrInvalidMove) Unwrap() error { return e.Err }

// ErrTimeUp means a player's clock flag fell (spec.md §4.3).
type ErrTimeUp struct {
	Player string
}

func (e *ErrTimeUp) Error() string { return fmt.Sprintf("%s ran out of time", e.Player) }

// ErrAdjudicatorDecision means the match ended by score-based
// adjudication rather than by a terminal position (spec.md §4.4).
type ErrAdjudicatorDecision struct {
	Reason string
}

func (e *ErrAdjudicatorDecision) Error() string { return fmt.Sprintf("adjudicated: %s", e.Reason) }

// ErrAbortedByUser means the match was ended explicitly via AbortMatch.
type ErrAbortedByUser struct{}

func (e *ErrAbortedByUser) Error() string { return "match aborted by user" }

// ErrEngineError wraps an `info error ...` or otherwise fatal
// engine-reported failure for one ply.
type ErrEngineError struct {
	Engine string
	Err    error
}

func (e *ErrEngineError) Error() string { return fmt.Sprintf("engine %q: %v", e.Engine, e.Err) }
func (e *ErrEngineError) Unwrap() error { return e.Err }
