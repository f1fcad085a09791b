// Package logger holds the process wide structured logger. It discards
// everything until Setup is called.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

var ErrUnknownFormat = errors.New("unknown log format")

type Config struct {
	// File receives the logs when set, otherwise Output does.
	File   string
	Output io.Writer
	Format string
	Debug  bool
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
)

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Setup installs the logger described by cfg. The returned function closes
// the log file and restores the discarding logger.
func Setup(cfg Config) (func() error, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var file *os.File
	if cfg.File != "" {
		err := os.MkdirAll(filepath.Dir(cfg.File), 0o755)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create log directory")
		}
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to open %s", cfg.File)
		}
		out = file
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}

			return a
		},
	}

	var h slog.Handler
	switch cfg.Format {
	case "", FormatJSON:
		h = slog.NewJSONHandler(out, opts)
	case FormatText:
		h = slog.NewTextHandler(out, opts)
	default:
		if file != nil {
			_ = file.Close()
		}

		return nil, errors.Wrap(ErrUnknownFormat, cfg.Format)
	}

	mu.Lock()
	global = slog.New(h)
	logFile = file
	mu.Unlock()

	L().Debug("logger initialized", slog.String("file", cfg.File), slog.Bool("debug", cfg.Debug))

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var err error
		if logFile != nil {
			err = logFile.Close()
		}
		logFile = nil
		global = discard()

		return err
	}

	return cleanup, nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}
