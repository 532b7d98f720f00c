package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewZerolog builds the zerolog logger used by the database and the
// dispatcher. It writes console format to console and, when file is not
// nil, uncoloured console format to file.
func NewZerolog(console, file io.Writer, level string) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()
}

// CommandLogger adapts a zerolog.Logger to the dispatcher's Logger
// interface. Records carry component=dispatcher.
type CommandLogger struct {
	zl zerolog.Logger
}

// NewCommandLogger wraps zl for the command dispatcher.
func NewCommandLogger(zl zerolog.Logger) *CommandLogger {
	return &CommandLogger{zl: zl.With().Str("component", "dispatcher").Logger()}
}

func (l *CommandLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.zl.Debug(), msg, keysAndValues)
}

func (l *CommandLogger) Info(msg string, keysAndValues ...any) {
	emit(l.zl.Info(), msg, keysAndValues)
}

func (l *CommandLogger) Error(msg string, keysAndValues ...any) {
	emit(l.zl.Error(), msg, keysAndValues)
}

// emit attaches alternating key/value pairs to e. Non-string keys and a
// dangling key are dropped.
func emit(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			e = e.Interface(key, kv[i+1])
		}
	}
	e.Msg(msg)
}
