package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "warn", "json")

	l.Info().Msg("dropped")
	l.Warn().Str("doi", "10.1000/182").Msg("kept")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "kept", rec["message"])
	assert.Equal(t, "10.1000/182", rec["doi"])
	assert.Contains(t, rec, "time")
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "debug", "console")
	l.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestInitDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "off", "json")
	l.Error().Msg("silent")
	assert.Empty(t, buf.String())
}
