// Package config loads the two configuration documents the program
// needs: a JSON engine roster (spec.md §6, in the same EngConfig/
// NewEnginesFromConfig shape as a hand-rolled UCI engine pool) and a
// TOML run configuration describing one match to supervise.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/matchstate"
	"github.com/toanth/monitors/internal/transport"
)

// EngineEntry is one engine in the JSON roster file.
type EngineEntry struct {
	DisplayName string   `json:"displayName"`
	Path        string   `json:"path"`
	Args        []string `json:"args"`
	Dir         string   `json:"dir"`
	Protocol    string   `json:"protocol"` // "uci" or "ugi"; not read: the handshake always sends "uci"
	Options     []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"options"`
}

// EngineRoster is the top-level JSON document: a named list of engines
// that run configs can refer to by DisplayName.
type EngineRoster []EngineEntry

// LoadEngineRoster reads and validates a JSON engine roster file.
func LoadEngineRoster(path string) (EngineRoster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var roster EngineRoster
	if err := json.Unmarshal(raw, &roster); err != nil {
		return nil, fmt.Errorf("parsing engine roster %s: %w", path, err)
	}
	for _, e := range roster {
		if e.Path == "" {
			return nil, errors.New("engine roster entry is missing a path")
		}
		if e.DisplayName == "" {
			return nil, errors.New("engine roster entry is missing a displayName")
		}
	}
	return roster, nil
}

// Find returns the roster entry with the given display name.
func (r EngineRoster) Find(displayName string) (EngineEntry, bool) {
	for _, e := range r {
		if e.DisplayName == displayName {
			return e, true
		}
	}
	return EngineEntry{}, false
}

// Builder returns a matchstate.PlayerBuilder that spawns a fresh process
// for this roster entry, used both for initial startup and for
// HardResetPlayer recovery after a crash (spec.md §4.5).
func (e EngineEntry) Builder(log *zap.Logger) matchstate.PlayerBuilder {
	return func() (*transport.Engine, error) {
		return transport.Start(transport.Spawn{
			DisplayName: e.DisplayName,
			Path:        e.Path,
			Args:        e.Args,
			Dir:         e.Dir,
		}, log)
	}
}
