// Package logging builds the go-ethereum logger used by the binary.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Supported log formats.
const (
	FormatTerminal = "terminal"
	FormatLogfmt   = "logfmt"
	FormatJSON     = "json"
)

// Config selects the level and format of the log output.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// DefaultConfig returns info-level terminal logging without color.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatTerminal,
	}
}

// Check validates the level and format.
func (c Config) Check() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case FormatTerminal, FormatLogfmt, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) (log.Logger, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	lvl, _ := ParseLevel(cfg.Level)

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = log.JSONHandlerWithLevel(w, lvl)
	case FormatLogfmt:
		handler = log.LogfmtHandlerWithLevel(w, lvl)
	default:
		handler = log.NewTerminalHandlerWithLevel(w, lvl, cfg.Color)
	}
	return log.NewLogger(handler), nil
}
