package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chefbot/src/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "chefbot"

var Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", serviceName).Logger()

var (
	mu      sync.Mutex
	logFile *os.File
)

var timeFormats = map[string]string{
	"unix":    zerolog.TimeFormatUnix,
	"iso8601": "2006-01-02T15:04:05.000Z07:00",
	"rfc3339": time.RFC3339,
}

// New builds a logger from config without touching the package globals.
// The returned file is non-nil when output goes to a log file and must be closed by the caller.
func New(config model.LogConfig) (zerolog.Logger, *os.File, error) {
	var out io.Writer
	var file *os.File

	switch strings.ToLower(config.Output) {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		if config.FilePath == "" {
			return zerolog.Logger{}, nil, fmt.Errorf("log output 'file' needs a file path")
		}
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to open log file '%s': %w", config.FilePath, err)
		}
		out, file = f, f
	default:
		return zerolog.Logger{}, nil, fmt.Errorf("unknown log output '%s'", config.Output)
	}

	// console output is for terminals; files always get JSON
	if strings.EqualFold(config.Format, "console") && file == nil {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Caller().
		Logger()
	return l, file, nil
}

// InitLogger configures the level and time format and installs the process logger
func InitLogger(config model.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	timeFormat, ok := timeFormats[strings.ToLower(config.TimeFormat)]
	if !ok {
		timeFormat = time.RFC3339
	}

	l, file, err := New(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = timeFormat
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	Logger = l
	log.Logger = l

	Logger.Debug().
		Str("level", level.String()).
		Str("output", config.Output).
		Msg("Logger initialized")
	return nil
}

// With returns a child logger tagged with a component name
func With(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}

func Fatal() *zerolog.Event {
	return Logger.Fatal()
}
