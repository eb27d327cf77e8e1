package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// RunConfig is the TOML document describing one match to supervise,
// grounded on the toml.Unmarshal pattern used for engine registries
// elsewhere in the pack.
type RunConfig struct {
	Event string `toml:"event"`
	Site  string `toml:"site"`
	Game  string `toml:"game"` // required by LoadRunConfig; cmd/monitors always plays the countdown test game

	White PlayerConfig `toml:"white"`
	Black PlayerConfig `toml:"black"`

	Adjudication AdjudicationSection `toml:"adjudication"`

	LiveSpectator LiveSpectatorSection `toml:"live_spectator"`
}

// PlayerConfig describes one seat: either a human or a reference into
// the engine roster plus a time control.
type PlayerConfig struct {
	Human      bool   `toml:"human"`
	EngineName string `toml:"engine"` // displayName in the roster
	RosterPath string `toml:"roster"`

	InitialTimeMS int64 `toml:"initial_time_ms"`
	IncrementMS   int64 `toml:"increment_ms"`
	MovesToGo     int   `toml:"moves_to_go"`
	FixedTimeMS   int64 `toml:"fixed_time_ms"`
	Depth         int   `toml:"depth"`
	Nodes         int64 `toml:"nodes"`
}

// AdjudicationSection mirrors matchstate.AdjudicationConfig in TOML form.
type AdjudicationSection struct {
	Enabled           bool  `toml:"enabled"`
	DrawThreshold     int32 `toml:"draw_threshold_cp"`
	DrawStreak        int   `toml:"draw_streak"`
	DrawStartPly      int   `toml:"draw_start_ply"`
	ResignThreshold   int32 `toml:"resign_threshold_cp"`
	ResignStreak      int   `toml:"resign_streak"`
	ResignStartPly    int   `toml:"resign_start_ply"`
	MaxMovesUntilDraw int   `toml:"max_moves_until_draw"`
}

// LiveSpectatorSection configures the websocket broadcast sink.
type LiveSpectatorSection struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// LoadRunConfig reads and parses a TOML run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg RunConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	if cfg.Game == "" {
		return nil, fmt.Errorf("run config %s is missing a game", path)
	}
	return &cfg, nil
}

// TimeControlDurations returns the three clock fields as durations for
// internal/clock consumption.
func (p PlayerConfig) TimeControlDurations() (remaining, increment, fixedTime time.Duration) {
	return time.Duration(p.InitialTimeMS) * time.Millisecond,
		time.Duration(p.IncrementMS) * time.Millisecond,
		time.Duration(p.FixedTimeMS) * time.Millisecond
}
