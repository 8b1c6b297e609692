package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func TestConfigCheck(t *testing.T) {
	require.NoError(t, DefaultConfig().Check())
	require.Error(t, Config{Level: "loud", Format: FormatTerminal}.Check())
	require.Error(t, Config{Level: "info", Format: "xml"}.Check())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"trace", log.LevelTrace},
		{"DEBUG", log.LevelDebug},
		{"info", log.LevelInfo},
		{"Warn", log.LevelWarn},
		{"error", log.LevelError},
		{"crit", log.LevelCrit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := ParseLevel(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, lvl)
		})
	}

	_, err := ParseLevel("")
	require.Error(t, err)
	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Connected to wallet", "account", "0xabc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "Connected to wallet", entry["msg"])
	require.Equal(t, "0xabc", entry["account"])
}

func TestNewTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: FormatTerminal}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("Failed to get value", "err", "timeout")
	require.Contains(t, buf.String(), "Failed to get value")
	require.NotContains(t, buf.String(), "hidden")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
}
