package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, newLogger(&bytes.Buffer{}, "production", "").GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(&bytes.Buffer{}, "development", "").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger(&bytes.Buffer{}, "development", "warn").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(&bytes.Buffer{}, "production", "loud").GetLevel())
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "")

	logger.Info().Int64("storeId", 3).Msg("liked")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "liked", line["message"])
	assert.Equal(t, "mymoo-api", line["service"])
	assert.Equal(t, float64(3), line["storeId"])
}
