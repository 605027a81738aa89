package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ozymandias/internal/apperr"
)

// Format selects the log encoder.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures New.
type Options struct {
	Level  zapcore.Level
	Format Format
	Output io.Writer
}

// New returns a logger writing to opts.Output.
func New(opts Options) (*zap.Logger, error) {
	if opts.Output == nil {
		return nil, apperr.NewConfigError("logging: output writer required")
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	switch opts.Format {
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	case FormatConsole, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, apperr.NewConfigError(fmt.Sprintf("unknown log format %q", opts.Format))
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), zap.NewAtomicLevelAt(opts.Level))
	return zap.New(core, zap.AddCaller()), nil
}

// ParseFormat accepts console (or its alias text) and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console", "text":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", apperr.NewConfigError(
			fmt.Sprintf("invalid log format %q (valid: console, text, json)", s))
	}
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, apperr.NewConfigError(
			fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", s))
	}
}

// ResolveLevel combines the -v/-q counters with an explicit --log-level.
//
// A non-empty explicit level wins. Otherwise the level starts at base and
// moves one step per -q (quieter) or -v (louder), clamped to debug..error.
func ResolveLevel(base zapcore.Level, verbose, quiet int, explicit string) (zapcore.Level, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseLevel(explicit)
	}
	lvl := int(base) + quiet - verbose
	if lvl < int(zapcore.DebugLevel) {
		lvl = int(zapcore.DebugLevel)
	}
	if lvl > int(zapcore.ErrorLevel) {
		lvl = int(zapcore.ErrorLevel)
	}
	return zapcore.Level(lvl), nil
}
