package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toanth/monitors/internal/registry"
)

func TestMakeUniqueFirstNameUnchanged(t *testing.T) {
	s := registry.NewNameSet()
	assert.Equal(t, "Stockfish", s.MakeUnique("Stockfish"))
}

func TestMakeUniqueDisambiguatesCaseInsensitively(t *testing.T) {
	s := registry.NewNameSet()
	s.MakeUnique("Stockfish")
	assert.Equal(t, "stockfish (2)", s.MakeUnique("stockfish"))
	assert.Equal(t, "Stockfish (3)", s.MakeUnique("Stockfish"))
}

func TestReleaseAllowsReuse(t *testing.T) {
	s := registry.NewNameSet()
	s.MakeUnique("Lc0")
	s.Release("lc0")
	assert.Equal(t, "Lc0", s.MakeUnique("Lc0"))
}
