// Package logger provides the process-wide slog logger. Records go to a
// rotating file because the TUI owns the terminal.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const DefaultFileName = "railchat.log"

var (
	mu       sync.Mutex
	levelVar = new(slog.LevelVar)
	current  = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelVar}))
	closer   io.Closer
)

// DefaultPath returns <user cache dir>/railchat/railchat.log
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "railchat", DefaultFileName)
}

// Init points the logger at path, rotating it once it grows past a few
// megabytes. An empty path selects DefaultPath.
func Init(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	closer = rotator
	current = slog.New(slog.NewTextHandler(rotator, &slog.HandlerOptions{Level: levelVar}))
	current.Info("logger initialized", "path", path)
	return nil
}

// SetOutput replaces the sink, mostly useful in tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	current = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Get returns the current logger. Callers should fetch it once at
// construction time.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// WithComponent tags every record with the component name
func WithComponent(name string) *slog.Logger {
	return Get().With("component", name)
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}
