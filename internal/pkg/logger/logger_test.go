package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigureFiltersByLevel(t *testing.T) {
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})

	Info().Msg("below threshold")
	Warn().Msg("at threshold")
	Error().Msg("above threshold")

	out := buf.String()
	assert.NotContains(t, out, "below threshold")
	assert.Contains(t, out, "at threshold")
	assert.Contains(t, out, "above threshold")
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	var buf bytes.Buffer
	Configure(Config{Level: "verbose-ish", Output: &buf})

	Info().Msg("still visible")
	assert.Contains(t, buf.String(), "still visible")
}
