// Package config provides the run defaults read from an optional TOML file and
// LZJD_* environment variables. Command-line flags are applied on top by the
// caller.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/report"
	"github.com/isseis/go-lzjd/internal/similarity"
)

// Config holds the tunable settings of a run.
type Config struct {
	Threshold int    `toml:"threshold"`
	Workers   int    `toml:"workers"`
	Hash      string `toml:"hash"`
	Format    string `toml:"format"`
	LogLevel  string `toml:"log_level"`
	LogDir    string `toml:"log_dir"`
}

// Error definitions for the config package
var (
	// ErrInvalidThreshold is returned when the threshold is outside 0..100
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInvalidWorkers is returned when the worker count is below one
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidLogLevel is returned for an unrecognized log level name
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Threshold: similarity.DefaultThreshold,
		Workers:   runtime.NumCPU(),
		Hash:      lzjd.DefaultFamilyName,
		Format:    report.FormatText,
	}
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	var err error
	switch {
	case c.Threshold < similarity.MinThreshold || c.Threshold > similarity.MaxThreshold:
		err = fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidThreshold, c.Threshold, similarity.MinThreshold, similarity.MaxThreshold)
	case c.Workers < 1:
		err = fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	case !validLogLevel(c.LogLevel):
		err = fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if err == nil {
		if _, ferr := lzjd.FamilyByName(c.Hash); ferr != nil {
			err = ferr
		} else {
			err = report.Validate(c.Format)
		}
	}
	if err != nil {
		return &common.Error{Kind: common.ErrUsage, Op: "validate configuration", Err: err}
	}
	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
