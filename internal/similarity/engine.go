// Package similarity scores digest records against each other.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/digestfile"
	"github.com/isseis/go-lzjd/internal/workerpool"
)

const (
	// MinThreshold and MaxThreshold bound Options.Threshold.
	MinThreshold = 0
	MaxThreshold = 100

	// DefaultThreshold keeps every pair that shares anything at all.
	DefaultThreshold = 1
)

// ErrThresholdOutOfRange indicates a threshold outside [MinThreshold, MaxThreshold].
var ErrThresholdOutOfRange = errors.New("threshold out of range")

// Options controls a comparison.
type Options struct {
	// Threshold is the minimum rounded score a pair needs to be reported.
	Threshold int

	// Self marks a comparison of a set against itself. Only pairs i < j are
	// scored; the diagonal and the mirrored half are skipped because scores
	// are symmetric.
	Self bool
}

// Compare scores every pair of records from a and b and returns those whose
// score is at least opts.Threshold, ordered by index in a and then by index
// in b. With opts.Self set, b is ignored and a is compared with itself.
//
// Rows of a are spread over the pool; the result order does not depend on
// the worker count.
func Compare(ctx context.Context, pool *workerpool.Pool, a, b []digestfile.Record, opts Options) ([]Result, error) {
	if opts.Threshold < MinThreshold || opts.Threshold > MaxThreshold {
		return nil, &common.Error{
			Kind: common.ErrUsage,
			Op:   "compare",
			Err:  fmt.Errorf("%w: %d (want %d..%d)", ErrThresholdOutOfRange, opts.Threshold, MinThreshold, MaxThreshold),
		}
	}

	inner := b
	if opts.Self {
		inner = a
	}

	start := time.Now()
	results, err := workerpool.FoldOrdered(ctx, pool, len(a),
		func(_ context.Context, i int, acc []Result) ([]Result, error) {
			return compareRow(a[i], inner, firstColumn(i, opts.Self), opts.Threshold, acc), nil
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Comparison finished",
		"rows", len(a),
		"columns", len(inner),
		"self", opts.Self,
		"pairs", PairCount(len(a), len(inner), opts.Self),
		"matches", len(results),
		"threshold", opts.Threshold,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return results, nil
}

// CompareSelf is Compare of records against themselves.
func CompareSelf(ctx context.Context, pool *workerpool.Pool, records []digestfile.Record, threshold int) ([]Result, error) {
	return Compare(ctx, pool, records, nil, Options{Threshold: threshold, Self: true})
}

func firstColumn(row int, self bool) int {
	if self {
		return row + 1
	}
	return 0
}

func compareRow(rec digestfile.Record, inner []digestfile.Record, from, threshold int, acc []Result) []Result {
	for j := from; j < len(inner); j++ {
		score := Score(rec.Digest, inner[j].Digest)
		if score >= threshold {
			acc = append(acc, Result{NameA: rec.Name, NameB: inner[j].Name, Score: score})
		}
	}
	return acc
}

// PairCount returns how many pairs Compare evaluates before thresholding.
func PairCount(rows, columns int, self bool) int {
	if self {
		return rows * (rows - 1) / 2
	}
	return rows * columns
}
