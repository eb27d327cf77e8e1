// Package sink implements the output-sink abstraction of spec.md §4.6:
// anything that wants to observe a match (a terminal, a log aggregator,
// a web spectator) implements OutputSink and is fanned out to by the
// orchestrator. No sink ever feeds back into match state.
package sink

import "github.com/toanth/monitors/internal/oracle"

// OutputSink receives every user-visible event a match produces.
type OutputSink interface {
	// Show renders the current position, e.g. after a move or undo.
	Show(board oracle.Board)
	// DisplayMessage surfaces a free-text message (an `info string`, a
	// warning, a protocol violation notice) to whatever is watching.
	DisplayMessage(message string)
	// UpdateEngineInfo is called whenever a SearchInfo is parsed for one
	// engine, formatted by the caller into a single display line.
	UpdateEngineInfo(engineName, line string)
	// InformGameOver announces the final result and its reason.
	InformGameOver(result string, reason string)
	// WriteUgiInput/WriteUgiOutput log the raw protocol traffic for
	// debugging, mirroring the per-engine stderr logs transport keeps.
	WriteUgiInput(engineName, line string)
	WriteUgiOutput(engineName, line string)
}

// Multi fans every call out to a list of sinks, letting the orchestrator
// treat "all configured observers" as a single OutputSink.
type Multi []OutputSink

func (m Multi) Show(board oracle.Board) {
	for _, s := range m {
		s.Show(board)
	}
}

func (m Multi) DisplayMessage(message string) {
	for _, s := range m {
		s.DisplayMessage(message)
	}
}

func (m Multi) UpdateEngineInfo(engineName, line string) {
	for _, s := range m {
		s.UpdateEngineInfo(engineName, line)
	}
}

func (m Multi) InformGameOver(result, reason string) {
	for _, s := range m {
		s.InformGameOver(result, reason)
	}
}

func (m Multi) WriteUgiInput(engineName, line string) {
	for _, s := range m {
		s.WriteUgiInput(engineName, line)
	}
}

func (m Multi) WriteUgiOutput(engineName, line string) {
	for _, s := range m {
		s.WriteUgiOutput(engineName, line)
	}
}
