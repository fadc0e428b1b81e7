package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger = zerolog.Nop()

var once sync.Once

// Options configures the global logger.
type Options struct {
	// FilePath, when set, receives a copy of every log line.
	FilePath string
	// Level is a zerolog level name; unknown or empty means info.
	Level string
	// Console switches stdout to the human-readable console writer.
	Console bool
}

// InitLogging configures the global zerolog logger. Only the first call has effect.
func InitLogging(opts Options) {
	once.Do(func() {
		var stdout io.Writer = os.Stdout
		if opts.Console {
			stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		}
		writers := []io.Writer{stdout}

		if opts.FilePath != "" {
			file, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
			if err != nil {
				// We can't use the logger yet, so just print to stderr
				os.Stderr.WriteString("Failed to open log file: " + err.Error() + "\n")
			} else {
				writers = append(writers, file)
			}
		}

		multi := zerolog.MultiLevelWriter(writers...)
		logger := zerolog.New(multi).With().Timestamp().Logger()
		logger = logger.Level(ParseLevel(opts.Level))
		globalLogger = logger
		log.Logger = logger
	})
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithLogger returns a new context containing the logger with additional fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := getLogger(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// getLogger extracts the zerolog logger from the context, falling back to the global logger.
func getLogger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	// zerolog.Ctx returns a disabled logger if none is in context
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// DebugLog logs a debug level message.
func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Debug().Msgf(msg, args...)
}

// InfoLog logs an info level message.
func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Info().Msgf(msg, args...)
}

// WarnLog logs a warning level message.
func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Warn().Msgf(msg, args...)
}

// ErrorLog logs an error level message. A leading error argument is also
// attached as the structured "error" field.
func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	ev := getLogger(ctx).Error()
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			ev = ev.Err(err)
		}
	}
	ev.Msgf(msg, args...)
}
