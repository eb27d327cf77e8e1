package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEngineRosterParsesEntries(t *testing.T) {
	path := writeFile(t, "roster.json", `[
		{"displayName": "Stockfish", "path": "/usr/bin/stockfish", "args": ["--uci"]}
	]`)
	roster, err := config.LoadEngineRoster(path)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Stockfish", roster[0].DisplayName)
	assert.Equal(t, []string{"--uci"}, roster[0].Args)
}

func TestLoadEngineRosterRejectsMissingPath(t *testing.T) {
	path := writeFile(t, "roster.json", `[{"displayName": "Stockfish"}]`)
	_, err := config.LoadEngineRoster(path)
	assert.Error(t, err)
}

func TestEngineRosterFind(t *testing.T) {
	path := writeFile(t, "roster.json", `[
		{"displayName": "A", "path": "/bin/a"},
		{"displayName": "B", "path": "/bin/b"}
	]`)
	roster, err := config.LoadEngineRoster(path)
	require.NoError(t, err)

	entry, ok := roster.Find("B")
	require.True(t, ok)
	assert.Equal(t, "/bin/b", entry.Path)

	_, ok = roster.Find("C")
	assert.False(t, ok)
}

func TestEngineEntryBuilderDoesNotSpawnEagerly(t *testing.T) {
	entry := config.EngineEntry{DisplayName: "X", Path: "/does/not/exist"}
	builder := entry.Builder(zap.NewNop())
	require.NotNil(t, builder)

	_, err := builder()
	assert.Error(t, err)
}

func TestLoadRunConfigParsesSections(t *testing.T) {
	path := writeFile(t, "run.toml", `
game = "countdown"
event = "Test Match"

[white]
engine = "A"

[black]
human = true

[adjudication]
enabled = true
draw_threshold_cp = 10
draw_streak = 5
`)
	cfg, err := config.LoadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "countdown", cfg.Game)
	assert.Equal(t, "A", cfg.White.EngineName)
	assert.True(t, cfg.Black.Human)
	assert.True(t, cfg.Adjudication.Enabled)
	assert.Equal(t, 5, cfg.Adjudication.DrawStreak)
}

func TestLoadRunConfigRequiresGame(t *testing.T) {
	path := writeFile(t, "run.toml", `event = "Test"`)
	_, err := config.LoadRunConfig(path)
	assert.Error(t, err)
}
