package protocol_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toanth/monitors/internal/protocol"
)

func tokens(line string) []string { return strings.Fields(line) }

func TestParseOptionSpin(t *testing.T) {
	opt, err := protocol.ParseOption(tokens("name Hash type spin default 16 min 1 max 4096"))
	require.NoError(t, err)
	assert.Equal(t, "Hash", opt.Name)
	assert.Equal(t, protocol.TypeSpin, opt.Type)
	assert.Equal(t, "16", opt.Default)
	assert.Equal(t, "1", opt.Min)
	assert.Equal(t, "4096", opt.Max)
}

func TestParseOptionMultiWordName(t *testing.T) {
	opt, err := protocol.ParseOption(tokens("name Clear Hash type button"))
	require.NoError(t, err)
	assert.Equal(t, "Clear Hash", opt.Name)
	assert.Equal(t, protocol.TypeButton, opt.Type)
}

func TestParseOptionEmptyDefaultSentinel(t *testing.T) {
	opt, err := protocol.ParseOption(tokens("name SyzygyPath type string default <empty>"))
	require.NoError(t, err)
	assert.Equal(t, "", opt.Default)
}

func TestParseOptionComboVars(t *testing.T) {
	opt, err := protocol.ParseOption(tokens("name Style type combo default Normal var Solid var Normal var Risky"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Solid", "Normal", "Risky"}, opt.Vars)
}

func TestParseOptionTypeInappropriateStillStores(t *testing.T) {
	opt, err := protocol.ParseOption(tokens("name Ponder type check min 1"))
	assert.Error(t, err)
	assert.Equal(t, "1", opt.Min)
}

func TestParseOptionMissingNameErrors(t *testing.T) {
	_, err := protocol.ParseOption(tokens("type check"))
	assert.Error(t, err)
}
