// Package logger provides the application logger and shared slog attribute
// helpers used across all domain packages.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
)

// Module provides the logger dependencies.
var Module = fx.Module("logger",
	fx.Provide(NewLogger),
	fx.Provide(NewHTTPLogger),
)

// NewLogger creates the application *slog.Logger.
//
// The level is read from LOG_LEVEL (debug, info, warn/warning, error;
// case-insensitive, defaults to info). When GO_ENV=production the handler
// emits JSON, otherwise human-readable text.
func NewLogger() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Scope returns a slog attribute identifying the component a log line
// originates from, e.g. logger.Scope("graph.repo").
func Scope(scope string) slog.Attr {
	return slog.String("scope", scope)
}

// Error returns a slog attribute for an error value.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// HTTPLogger writes one access-log line per handled request. When
// HTTP_LOG_FILE is set the lines go to that file, otherwise they are
// discarded (request logging to the main logger is handled separately by
// the server middleware).
type HTTPLogger struct {
	log *slog.Logger
}

// NewHTTPLogger creates the access logger.
func NewHTTPLogger() *HTTPLogger {
	var w io.Writer = io.Discard
	if path := os.Getenv("HTTP_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		}
	}
	return &HTTPLogger{
		log: slog.New(slog.NewJSONHandler(w, nil)),
	}
}

// LogRequest records a single handled HTTP request.
func (l *HTTPLogger) LogRequest(ip, method, uri string, status int, latency time.Duration, userAgent, requestID string) {
	l.log.Info("request",
		slog.String("ip", ip),
		slog.String("method", method),
		slog.String("uri", uri),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("user_agent", userAgent),
		slog.String("request_id", requestID),
	)
}
