// Package main provides the lzjd command. It builds LZJD similarity digests
// for files and scores digests against each other.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/isseis/go-lzjd/internal/app"
	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/config"
	"github.com/isseis/go-lzjd/internal/logging"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/report"
	"github.com/isseis/go-lzjd/internal/terminal"
	"github.com/isseis/go-lzjd/internal/workerpool"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var (
	errConflictingModes = errors.New("-c and -g are mutually exclusive")

	// replaced in tests: the real pool may be built only once per process
	initPool = workerpool.Init
	environ  = os.Environ
)

// stringSlice collects a repeatable string flag.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type cliOptions struct {
	deep       bool
	compare    bool
	genCompare bool
	threshold  int
	workers    int
	output     string
	inputs     stringSlice
	hash       string
	format     string
	configPath string
	envFile    string
	logLevel   string
	logDir     string
	quiet      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, set, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts, set)
	if err != nil {
		return fail(stderr, fs, err)
	}

	interactive := terminal.NewDetector(os.Stderr, terminal.Options{ForceNonInteractive: opts.quiet}).IsInteractive()
	runID, closeLog, err := logging.Setup(logging.Options{
		Level:       cfg.LogLevel,
		LogDir:      cfg.LogDir,
		Console:     stderr,
		Interactive: interactive,
		Quiet:       opts.quiet,
	})
	if err != nil {
		return fail(stderr, fs, err)
	}
	defer func() { _ = closeLog() }()

	pool, err := initPool(cfg.Workers)
	if err != nil {
		return fail(stderr, fs, err)
	}

	runOpts := app.RunOptions{
		Mode:       mode(opts),
		Threshold:  cfg.Threshold,
		Inputs:     append(append([]string(nil), opts.inputs...), fs.Args()...),
		Output:     opts.output,
		Recursive:  opts.deep,
		HashFamily: cfg.Hash,
		Format:     cfg.Format,
	}
	slog.Info("Run started", "run_id", runID, "mode", runOpts.Mode.String(), "workers", pool.Workers())
	if err := app.Run(ctx, pool, runOpts, stdout); err != nil {
		slog.Error("Run failed", "mode", runOpts.Mode.String(), "error", err)
		return fail(stderr, fs, err)
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, *flag.FlagSet, map[string]bool, error) {
	opts := &cliOptions{}

	fs := flag.NewFlagSet("lzjd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	fs.BoolVar(&opts.deep, "d", false, "Walk directory inputs and digest every regular file beneath them")
	fs.BoolVar(&opts.compare, "c", false, "Compare the digests in one file against each other, or two digest files against each other")
	fs.BoolVar(&opts.genCompare, "g", false, "Digest the inputs and compare all pairs")
	fs.IntVar(&opts.threshold, "t", 0, fmt.Sprintf("Only report scores >= threshold (default %d)", config.Default().Threshold))
	fs.IntVar(&opts.workers, "p", 0, "Number of worker goroutines (default: number of CPUs)")
	fs.StringVar(&opts.output, "o", "", "Write output to `file` instead of stdout")
	fs.Var(&opts.inputs, "input", "Input `path` (repeatable; positional arguments are accepted too)")
	fs.StringVar(&opts.hash, "hash", "", fmt.Sprintf("Seed hash family: %s (default %s)", strings.Join(lzjd.FamilyNames(), ", "), lzjd.DefaultFamilyName))
	fs.StringVar(&opts.format, "format", "", fmt.Sprintf("Result format: %s (default %s)", strings.Join(report.Formats(), ", "), report.FormatText))
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML configuration `file`")
	fs.StringVar(&opts.envFile, "env-file", "", "Read LZJD_* settings from a dotenv `file`")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logDir, "log-dir", "", "Write a JSON log file per run into `dir`")
	fs.BoolVar(&opts.quiet, "q", false, "Only log errors to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, fs, nil, err
	}
	if opts.compare && opts.genCompare {
		printUsage(fs, stderr)
		return nil, fs, nil, errConflictingModes
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, fs, set, nil
}

// loadConfig resolves settings with precedence flags > environment > file > defaults.
func loadConfig(opts *cliOptions, set map[string]bool) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	env, err := config.ReadEnv(environ(), opts.envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	if set["t"] {
		cfg.Threshold = opts.threshold
	}
	if set["p"] {
		cfg.Workers = opts.workers
	}
	if set["hash"] {
		cfg.Hash = opts.hash
	}
	if set["format"] {
		cfg.Format = opts.format
	}
	if set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if set["log-dir"] {
		cfg.LogDir = opts.logDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mode(opts *cliOptions) app.Mode {
	switch {
	case opts.compare:
		return app.ModeCompare
	case opts.genCompare:
		return app.ModeGenerateCompare
	default:
		return app.ModeGenerate
	}
}

func fail(stderr io.Writer, fs *flag.FlagSet, err error) int {
	if errors.Is(err, common.ErrUsage) {
		printUsage(fs, stderr)
		_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", common.KindName(err), err)
		return exitUsage
	}
	_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", common.KindName(err), err)
	return exitError
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	if fs == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Usage: %s [-d] [-c | -g] [flags] <path> [<path>...]\n", filepath.Base(os.Args[0]))
	fs.PrintDefaults()
}
