// Package logging wraps charmbracelet/log with the helpers used across
// createmvp. Debug output is opt-in through the DEBUG environment variable
// because the TUI owns the terminal while it runs.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	logPrefix      = "CreateMVP"
	debugLogFile   = "createmvp.log"
	EnvDebug       = "DEBUG"
	EnvLogFile     = "CREATEMVP_LOG_FILE"
	EnvLogLevel    = "CREATEMVP_LOG_LEVEL"
	defaultLogPerm = 0o644
)

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the process-wide logger, creating it on first use.
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

func Info(msg string, keyvals ...any)  { GetDefault().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { GetDefault().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { GetDefault().Error(msg, keyvals...) }
func Debug(msg string, keyvals ...any) { GetDefault().Debug(msg, keyvals...) }

func LogMessage(msg tea.Msg) { GetDefault().LogMessage(msg) }

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

func debugEnabled() bool {
	return os.Getenv(EnvDebug) != ""
}

// levelFromEnv returns CREATEMVP_LOG_LEVEL when it parses, fallback otherwise.
func levelFromEnv(fallback log.Level) log.Level {
	v := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if v == "" {
		return fallback
	}
	level, err := log.ParseLevel(v)
	if err != nil {
		return fallback
	}
	return level
}

// NewAppLogger builds the logger used by the interactive commands.
//
// With DEBUG set, everything goes to a debug log file, createmvp.log in the
// working directory unless CREATEMVP_LOG_FILE names another path. The file is
// truncated on each run. If it cannot be created the logger falls back to
// stderr. Without DEBUG only warnings and errors reach stderr.
func NewAppLogger() *AppLogger {
	if !debugEnabled() {
		return newWriterLogger(os.Stderr, levelFromEnv(log.WarnLevel), false)
	}

	logPath, err := debugLogPath()
	if err == nil {
		var logFile *os.File
		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultLogPerm)
		if err == nil {
			logger := log.NewWithOptions(logFile, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          logPrefix,
			})
			logger.SetLevel(log.DebugLevel)
			logger.Info("Debug logging enabled", "log_file", logPath)
			return &AppLogger{logger: logger, debug: true}
		}
	}

	fallback := newWriterLogger(os.Stderr, log.DebugLevel, true)
	fallback.Warn("Debug log file unavailable, logging to stderr", "error", err)
	return fallback
}

func debugLogPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvLogFile)); p != "" {
		return p, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return filepath.Join(cwd, debugLogFile), nil
}

// NewStderrLogger logs to stderr only. The MCP server uses it since stdout
// carries the protocol stream.
func NewStderrLogger() *AppLogger {
	debug := debugEnabled()
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return newWriterLogger(os.Stderr, levelFromEnv(level), debug)
}

func newWriterLogger(w io.Writer, level log.Level, debug bool) *AppLogger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          logPrefix,
	})
	logger.SetLevel(level)
	return &AppLogger{logger: logger, debug: debug || level <= log.DebugLevel}
}

// With returns a logger that adds keyvals to every entry.
func (al *AppLogger) With(keyvals ...any) *AppLogger {
	return &AppLogger{logger: al.logger.With(keyvals...), debug: al.debug}
}

func (al *AppLogger) Info(msg string, keyvals ...any)  { al.logger.Info(msg, keyvals...) }
func (al *AppLogger) Warn(msg string, keyvals ...any)  { al.logger.Warn(msg, keyvals...) }
func (al *AppLogger) Error(msg string, keyvals ...any) { al.logger.Error(msg, keyvals...) }

func (al *AppLogger) Debug(msg string, keyvals ...any) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// LogMessage records a bubbletea message (debug only)
func (al *AppLogger) LogMessage(msg tea.Msg) {
	if !al.debug {
		return
	}
	al.logger.Debug("Message received",
		"type", fmt.Sprintf("%T", msg),
		"content", fmt.Sprintf("%+v", msg),
	)
}

func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	al.Debug("Performance", "operation", operation, "duration", time.Since(start))
}

func (al *AppLogger) LogStateTransition(component, from, to string) {
	al.Debug("State transition", "component", component, "from", from, "to", to)
}

func (al *AppLogger) LogUserAction(action, context string) {
	al.Debug("User action", "action", action, "context", context)
}

// NewTestLogger creates a debug logger writing to a buffer
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Prefix: "Test"})
	logger.SetLevel(log.DebugLevel)
	return &AppLogger{logger: logger, debug: true}, &buf
}
