package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/safefileio"
)

const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600

	// schemaVersion is stamped on every JSON file record.
	schemaVersion = 1
)

// ErrInvalidLevel is returned for an unrecognized level name.
var ErrInvalidLevel = errors.New("invalid log level")

// Options configures Setup.
type Options struct {
	// Level names the minimum level ("debug", "info", "warn", "error").
	// Empty picks info for interactive sessions and warn otherwise.
	Level string

	// LogDir, when set, receives one JSON log file per run.
	LogDir string

	// Console receives human-readable records. Nil means os.Stderr.
	Console io.Writer

	// Interactive reports whether a human is watching Console.
	Interactive bool

	// Quiet drops console output below error.
	Quiet bool
}

// Setup installs the default slog logger described by opts and returns the
// run ID stamped on file records together with a function that closes the
// log file, if any.
func Setup(opts Options) (runID string, closeFn func() error, err error) {
	consoleLevel, fileLevel, err := levels(opts)
	if err != nil {
		return "", nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel}),
	}

	runID = uuid.NewString()
	closeFn = func() error { return nil }

	if opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir, runID)
		if err != nil {
			return "", nil, err
		}
		jsonHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: fileLevel})
		handlers = append(handlers, jsonHandler.WithAttrs([]slog.Attr{
			slog.String("hostname", common.GetHostname()),
			slog.Int("pid", os.Getpid()),
			slog.Int("schema_version", schemaVersion),
			slog.String("run_id", runID),
		}))
		closeFn = f.Close
	}

	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
	return runID, closeFn, nil
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "error":
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
		}
		return level, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

func levels(opts Options) (console, file slog.Level, err error) {
	console = slog.LevelWarn
	if opts.Interactive {
		console = slog.LevelInfo
	}
	file = slog.LevelInfo

	if opts.Level != "" {
		lvl, err := ParseLevel(opts.Level)
		if err != nil {
			return 0, 0, &common.Error{Kind: common.ErrUsage, Op: "configure logging", Err: err}
		}
		console, file = lvl, lvl
	}
	if opts.Quiet {
		console = slog.LevelError
	}
	return console, file, nil
}

// LogFileName builds the per-run file name <host>_<timestamp>_<runID>.json.
func LogFileName(host string, now time.Time, runID string) string {
	return fmt.Sprintf("%s_%s_%s.json", host, now.UTC().Format("20060102T150405Z"), runID)
}

func openLogFile(dir, runID string) (*os.File, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, common.NewIOError("create log directory", dir, err)
	}
	path := filepath.Join(dir, LogFileName(common.GetHostname(), time.Now(), runID))
	f, err := safefileio.CreateNewFile(path, logFilePerm)
	if err != nil {
		return nil, common.NewIOError("open log file", path, err)
	}
	return f, nil
}
