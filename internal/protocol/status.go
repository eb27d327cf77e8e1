// Package protocol implements the per-engine UGI/UCI finite automaton
// (spec.md §4.2): the states an engine process can be in, the inbound
// verbs honored in each, and the opportunistic parsers for `option` and
// `info` lines. It does not own any I/O; the orchestrator feeds it lines
// and acts on the parsed results.
package protocol

import (
	"fmt"
	"time"
)

// StatusKind enumerates the states of the per-engine automaton.
type StatusKind int

const (
	// WaitingUgiOk is the initial state: `ugi`/`uci` has been sent and
	// the engine has not yet answered `ugiok`/`uciok`.
	WaitingUgiOk StatusKind = iota
	// Idle means the handshake is complete and no search is running.
	Idle
	// ThinkingSince means a `go` has been sent and `bestmove` is awaited.
	ThinkingSince
	// Sync means `isready` was sent while idle; `readyok` is awaited.
	Sync
	// Ping means `isready` was sent mid-search; `readyok` is awaited
	// while the engine is still thinking.
	Ping
	// Halt means `stop` was sent mid-search; the pending bestmove will
	// either be dropped (HaltIgnore) or applied (HaltPlay).
	Halt
)

// HaltAction decides what happens to the bestmove that arrives after a
// Halt transition.
type HaltAction int

const (
	// HaltIgnore drops the upcoming bestmove silently.
	HaltIgnore HaltAction = iota
	// HaltPlay applies the upcoming bestmove as a normal move.
	HaltPlay
)

// BestMoveAction is the caller-facing intent passed to Status.Halt; it
// mirrors HaltAction but without the implicit timestamp capture, matching
// the distinction spec.md draws between requesting a halt action and the
// resulting Halt(action) state.
type BestMoveAction int

const (
	ActionIgnore BestMoveAction = iota
	ActionPlay
)

// Status is the current state of one engine's protocol automaton. Since
// is only meaningful for the ThinkingSince/Ping/Halt(Play) kinds and
// Action only for Halt; both are zero otherwise.
type Status struct {
	Kind   StatusKind
	Since  time.Time  // search start time, for ThinkingSince/Ping/Halt(Play)
	Action HaltAction // only meaningful when Kind == Halt
}

// NewWaitingUgiOk is the automaton's initial state.
func NewWaitingUgiOk() Status { return Status{Kind: WaitingUgiOk} }

// NewIdle returns the Idle state.
func NewIdle() Status { return Status{Kind: Idle} }

// NewThinkingSince returns a ThinkingSince state starting at t.
func NewThinkingSince(t time.Time) Status { return Status{Kind: ThinkingSince, Since: t} }

// NewSync returns the Sync state.
func NewSync() Status { return Status{Kind: Sync} }

// NewPing returns a Ping state, preserving the original think start time.
func NewPing(t time.Time) Status { return Status{Kind: Ping, Since: t} }

// ThinkingSinceTime reports the search start time if this status is
// ThinkingSince, Ping, or Halt(Play); the zero time and false otherwise.
func (s Status) ThinkingSinceTime() (time.Time, bool) {
	switch s.Kind {
	case ThinkingSince, Ping:
		return s.Since, true
	case Halt:
		if s.Action == HaltPlay {
			return s.Since, true
		}
	}
	return time.Time{}, false
}

// Halt transitions a ThinkingSince status into Halt(action). Calling it on
// any other status is a programmer error (the orchestrator only calls it
// after checking the engine is thinking) and panics, matching the
// original source's `expect`.
func (s Status) Halt(action BestMoveAction) Status {
	if s.Kind != ThinkingSince {
		panic("protocol: Halt called on an engine that wasn't thinking")
	}
	switch action {
	case ActionIgnore:
		return Status{Kind: Halt, Action: HaltIgnore}
	case ActionPlay:
		return Status{Kind: Halt, Action: HaltPlay, Since: s.Since}
	default:
		panic("protocol: unknown BestMoveAction")
	}
}

func (s Status) String() string {
	switch s.Kind {
	case WaitingUgiOk:
		return "initializing, waiting for ugiok/uciok"
	case Idle:
		return "idle"
	case ThinkingSince:
		return fmt.Sprintf("thinking (since %s ago)", time.Since(s.Since).Round(time.Millisecond))
	case Sync:
		return "waiting for readyok"
	case Ping:
		return fmt.Sprintf("thinking (since %s ago), waiting for readyok", time.Since(s.Since).Round(time.Millisecond))
	case Halt:
		return "halted, waiting for bestmove"
	default:
		return "unknown"
	}
}

// Verb is an inbound UGI/UCI command word.
type Verb string

const (
	VerbID        Verb = "id"
	VerbOption    Verb = "option"
	VerbProtocol  Verb = "protocol"
	VerbInfo      Verb = "info"
	VerbUciOk     Verb = "uciok"
	VerbUgiOk     Verb = "ugiok"
	VerbReadyOk   Verb = "readyok"
	VerbBestmove  Verb = "bestmove"
)

// Allowed reports whether verb is a recognized inbound message for this
// status, per the table in spec.md §4.2. Verbs not in this set are either
// silently dropped (WaitingUgiOk) or reported as ProtocolViolation by the
// caller (all other states).
func (s Status) Allowed(verb Verb) bool {
	switch s.Kind {
	case WaitingUgiOk:
		switch verb {
		case VerbID, VerbOption, VerbProtocol, VerbInfo, VerbUciOk, VerbUgiOk:
			return true
		}
		return false
	case Idle:
		return verb == VerbInfo
	case Sync:
		return verb == VerbInfo || verb == VerbReadyOk
	case ThinkingSince:
		return verb == VerbInfo || verb == VerbBestmove
	case Ping:
		return verb == VerbInfo || verb == VerbReadyOk || verb == VerbBestmove
	case Halt:
		return verb == VerbInfo || verb == VerbBestmove
	default:
		return false
	}
}

// SilentlyDropped reports whether an unrecognized verb in this state
// should be dropped without even a ProtocolViolation warning (only true
// during the initial handshake, per spec.md §4.2's table note).
func (s Status) SilentlyDropped(verb Verb) bool {
	return s.Kind == WaitingUgiOk && !s.Allowed(verb)
}
