package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// EnvVarLogFormat is the environment variable name for choosing the handler,
	// "json" (default) or "text".
	EnvVarLogFormat = "LOG_FORMAT"
)

// New creates a new structured logger writing to w with the specified log level.
// Defined module name and version are included in the logger's context.
// AddSource is enabled for debug level logging only.
// Parameters:
//   - w: Destination of the log records (os.Stderr outside of tests).
//   - module: The name of the module/application using the logger.
//   - version: The version of the module/application (e.g., "v1.0.0").
//   - level: The log level as a string (e.g., "debug", "info", "warn", "error").
//   - format: "text" for the text handler, anything else for JSON.
//
// Returns:
//   - *slog.Logger: A pointer to the configured slog.Logger instance.
func New(w io.Writer, module, version, level, format string) *slog.Logger {
	lev := ParseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultLogger initializes the structured logger with the
// appropriate log level and format and sets it as the default logger.
// Defined module name and version are included in the logger's context.
// Parameters:
//   - module: The name of the module/application using the logger.
//   - version: The version of the module/application (e.g., "v1.0.0").
//
// Derives log level from the LOG_LEVEL environment variable and the
// handler from LOG_FORMAT.
func SetDefaultLogger(module, version string) {
	slog.SetDefault(New(os.Stderr, module, version, os.Getenv(EnvVarLogLevel), os.Getenv(EnvVarLogFormat)))
}

// ParseLogLevel converts a string representation of a log level into a slog.Level.
// Parameters:
//   - level: The log level as a string (e.g., "debug", "info", "warn", "error").
//
// Returns:
//   - slog.Level corresponding to the input string. Defaults to slog.LevelInfo for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
