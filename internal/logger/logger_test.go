package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, FormatJSON)

	log.Debug("hidden")
	log.Info("work item claimed", "work_item_id", "wi-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "work item claimed", record["msg"])
	assert.Equal(t, "wi-1", record["work_item_id"])
	assert.Equal(t, "workdesk", record["service"])
	assert.Contains(t, record, "source")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "TEXT")

	log.Debug("sync skipped", "topic", "generic")

	assert.Contains(t, buf.String(), "msg=\"sync skipped\"")
	assert.Contains(t, buf.String(), "topic=generic")
}
