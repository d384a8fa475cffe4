package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes JSON lines for one component to the run's log file at
// <dir>/<run-id>-screenplay.log. Every component in a process shares the
// run ID and the file.
type Logger struct {
	*zap.Logger

	runID     string
	component string
	file      *os.File
	logPath   string
	closeOnce sync.Once
}

// Options configures New.
type Options struct {
	// Dir holds the log files. Empty means ~/.screenplay/logs.
	Dir string

	// Level is a zap level name. Empty means info.
	Level string

	// Fallback receives console output when the log file cannot be used.
	// Defaults to os.Stderr.
	Fallback io.Writer
}

var (
	runID     string
	runIDOnce sync.Once
)

// RunID returns the ID shared by every logger in this process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// DefaultDir returns ~/.screenplay/logs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".screenplay", "logs"), nil
}

// New creates a logger for component.
//
// If the log directory cannot be created or the file cannot be opened, New
// returns a console logger on opts.Fallback together with the error, so
// callers can warn and carry on.
func New(component string, opts Options) (*Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return newFallback(component, level, opts, err), err
		}
		level = parsed
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return newFallback(component, level, opts, err), err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallback(component, level, opts, err), err
	}

	id := RunID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-screenplay.log", id))

	// append: several components share the file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallback(component, level, opts, err), err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(file),
		level,
	)

	return &Logger{
		Logger:    zap.New(core).With(zap.String("run_id", id), zap.String("component", component)),
		runID:     id,
		component: component,
		file:      file,
		logPath:   logPath,
	}, nil
}

func newFallback(component string, level zapcore.Level, opts Options, cause error) *Logger {
	w := opts.Fallback
	if w == nil {
		w = os.Stderr
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	l := zap.New(core).With(zap.String("component", component))
	l.Warn("file logging unavailable, falling back to console", zap.Error(cause))

	return &Logger{
		Logger:    l,
		runID:     RunID(),
		component: component,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// RunID returns the run ID this logger tags records with.
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the log file path, or "" in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close flushes and closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		_ = l.Logger.Sync()
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
