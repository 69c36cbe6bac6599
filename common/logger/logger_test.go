package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}
	return records
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"warn+2", slog.LevelWarn + 2},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_JSONFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Service: "queue-service", Writer: &buf})

	log.Info("dropped")
	log.WithComponent("notifier").WithQueueID("q_1a2b3c4d").WithTable(3).Warn("kept")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0]["msg"])
	assert.Equal(t, "queue-service", records[0]["service"])
	assert.Equal(t, "notifier", records[0]["component"])
	assert.Equal(t, "q_1a2b3c4d", records[0]["queue_id"])
	assert.Equal(t, 3.0, records[0]["table_number"])
}

func TestError_StackOnlyWhenEnabled(t *testing.T) {
	var plain, traced bytes.Buffer
	New(Options{Format: "json", Writer: &plain}).Error("boom")
	New(Options{Format: "json", Writer: &traced, Stacks: true}).WithAppointmentID("apt_1").Error("boom")

	assert.NotContains(t, decodeLines(t, &plain)[0], "stack")

	rec := decodeLines(t, &traced)[0]
	assert.Equal(t, "apt_1", rec["appointment_id"])
	assert.Contains(t, rec["stack"], "runtime/debug.Stack")
}

func TestWithRequestID_SkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "json", Writer: &buf})

	log.WithRequestID("").Info("a")
	log.WithRequestID("req-7").Info("b")

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)
	assert.NotContains(t, records[0], "request_id")
	assert.Equal(t, "req-7", records[1]["request_id"])
}

func TestNew_ConsoleWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Writer: &buf}).Info("plain", "queue_type", "dine_in")

	out := buf.String()
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "queue_type=dine_in")
	assert.NotContains(t, out, "\x1b[")
}
