package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupWriterLevel(t *testing.T) {
	t.Cleanup(func() { SetupWriter("info", &bytes.Buffer{}) })

	var buf bytes.Buffer
	logger := SetupWriter("warn", &buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestSetupWriterUnknownLevelFallsBack(t *testing.T) {
	t.Cleanup(func() { SetupWriter("info", &bytes.Buffer{}) })

	var buf bytes.Buffer
	logger := SetupWriter("chatty", &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
