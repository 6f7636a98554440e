// Package app wires the digest pipeline, the similarity engine and the output
// sink into the three run modes of the lzjd command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/digestfile"
	"github.com/isseis/go-lzjd/internal/inputs"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/pipeline"
	"github.com/isseis/go-lzjd/internal/report"
	"github.com/isseis/go-lzjd/internal/similarity"
	"github.com/isseis/go-lzjd/internal/sink"
	"github.com/isseis/go-lzjd/internal/workerpool"
)

// Mode selects what a run does.
type Mode int

const (
	// ModeGenerate digests the inputs and writes one record line per file.
	ModeGenerate Mode = iota
	// ModeCompare reads one or two digest record files and scores them.
	ModeCompare
	// ModeGenerateCompare digests the inputs and scores all pairs.
	ModeGenerateCompare
)

func (m Mode) String() string {
	switch m {
	case ModeGenerate:
		return "generate"
	case ModeCompare:
		return "compare"
	case ModeGenerateCompare:
		return "generate-compare"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrTooManyDigestSets indicates a compare run over anything but one or two
// digest record files.
var ErrTooManyDigestSets = errors.New("can only compare one or two digest files at a time")

// ErrUnknownMode indicates a Mode value outside the defined set.
var ErrUnknownMode = errors.New("unknown mode")

// RunOptions is the fully resolved configuration of one run.
type RunOptions struct {
	Mode      Mode
	Threshold int
	Inputs    []string

	// Output names the destination file. Empty writes to stdout.
	Output string

	// Recursive walks directory inputs and replaces them with the regular
	// files found beneath them.
	Recursive bool

	HashFamily string
	Format     string
}

// Run executes one run with the given pool. Results and digest records go to
// opts.Output, or to stdout when no output file is named. The output is
// opened only after the options and inputs have been validated and is closed
// on every return path.
func Run(ctx context.Context, pool *workerpool.Pool, opts RunOptions, stdout io.Writer) (err error) {
	if opts.Format == "" {
		opts.Format = report.FormatText
	}
	family, err := resolve(opts)
	if err != nil {
		return err
	}

	files, err := resolveInputs(opts)
	if err != nil {
		return err
	}

	out, err := sink.Open(opts.Output, stdout)
	if err != nil {
		return err
	}
	defer sink.CloseInto(out, &err)

	slog.Debug("Run configured",
		"mode", opts.Mode.String(),
		"inputs", len(files),
		"workers", pool.Workers(),
		"hash", family.Name(),
		"output", out.Name())

	switch opts.Mode {
	case ModeGenerate:
		_, err = pipeline.HashFiles(ctx, pool, files, family, out)
		return err
	case ModeCompare:
		return runCompare(ctx, pool, files, opts, out)
	default:
		records, err := pipeline.HashFiles(ctx, pool, files, family, nil)
		if err != nil {
			return err
		}
		results, err := similarity.CompareSelf(ctx, pool, records, opts.Threshold)
		if err != nil {
			return err
		}
		return report.Write(opts.Format, out, results)
	}
}

func runCompare(ctx context.Context, pool *workerpool.Pool, files []string, opts RunOptions, out sink.Sink) error {
	a, err := digestfile.ReadFile(files[0])
	if err != nil {
		return err
	}

	var results []similarity.Result
	if len(files) == 2 {
		b, err := digestfile.ReadFile(files[1])
		if err != nil {
			return err
		}
		results, err = similarity.Compare(ctx, pool, a, b, similarity.Options{Threshold: opts.Threshold})
		if err != nil {
			return err
		}
	} else {
		results, err = similarity.CompareSelf(ctx, pool, a, opts.Threshold)
		if err != nil {
			return err
		}
	}
	return report.Write(opts.Format, out, results)
}

func resolve(opts RunOptions) (lzjd.HashFamily, error) {
	if opts.Mode < ModeGenerate || opts.Mode > ModeGenerateCompare {
		return nil, usageError(fmt.Errorf("%w: %d", ErrUnknownMode, int(opts.Mode)))
	}
	if opts.Threshold < similarity.MinThreshold || opts.Threshold > similarity.MaxThreshold {
		return nil, usageError(fmt.Errorf("%w: %d", similarity.ErrThresholdOutOfRange, opts.Threshold))
	}

	if err := report.Validate(opts.Format); err != nil {
		return nil, usageError(err)
	}

	name := opts.HashFamily
	if name == "" {
		name = lzjd.DefaultFamilyName
	}
	family, err := lzjd.FamilyByName(name)
	if err != nil {
		return nil, usageError(err)
	}
	return family, nil
}

// resolveInputs expands the inputs and, in compare mode, enforces the one or
// two digest set arity.
func resolveInputs(opts RunOptions) ([]string, error) {
	if opts.Mode == ModeCompare && len(opts.Inputs) == 0 {
		return nil, arityError(0)
	}
	files, err := inputs.Expand(opts.Inputs, opts.Recursive)
	if err != nil {
		return nil, err
	}
	if opts.Mode == ModeCompare && (len(files) == 0 || len(files) > 2) {
		return nil, arityError(len(files))
	}
	return files, nil
}

func arityError(n int) error {
	return &common.Error{
		Kind: common.ErrArity,
		Op:   "compare",
		Err:  fmt.Errorf("%w: got %d", ErrTooManyDigestSets, n),
	}
}

func usageError(err error) error {
	return &common.Error{Kind: common.ErrUsage, Op: "validate run options", Err: err}
}
