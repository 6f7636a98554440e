// Package workerpool provides the fixed-size executor shared by digest
// generation and comparison.
//
// Work is scheduled as an order-preserving fold: the index range is split into
// contiguous chunks, every chunk is folded into a private slice by one worker,
// and the slices are concatenated in chunk order. Results therefore come out
// in index order whatever the worker count or scheduling.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/isseis/go-lzjd/internal/common"
	"golang.org/x/sync/errgroup"
)

// chunksPerWorker oversplits the index range so that uneven rows (such as the
// triangular self-comparison) still balance across workers.
const chunksPerWorker = 8

var (
	// ErrInvalidWorkerCount indicates a worker count below one.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrAlreadyInitialized indicates a second call to Init in the same process.
	ErrAlreadyInitialized = errors.New("worker pool already initialized")
)

var initialized atomic.Bool

// Pool is a fixed-size executor. It never resizes once built.
type Pool struct {
	workers int
}

// New returns a pool running at most workers tasks concurrently.
func New(workers int) (*Pool, error) {
	if workers < 1 {
		return nil, &common.Error{
			Kind: common.ErrPoolInit,
			Op:   "build worker pool",
			Err:  fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers),
		}
	}
	return &Pool{workers: workers}, nil
}

// Init builds the process-wide pool. It succeeds at most once per process;
// a failed attempt does not count.
func Init(workers int) (*Pool, error) {
	if !initialized.CompareAndSwap(false, true) {
		return nil, &common.Error{Kind: common.ErrPoolInit, Op: "build worker pool", Err: ErrAlreadyInitialized}
	}
	p, err := New(workers)
	if err != nil {
		initialized.Store(false)
		return nil, err
	}
	return p, nil
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// FoldFunc folds index i into acc and returns the extended accumulator.
type FoldFunc[T any] func(ctx context.Context, i int, acc []T) ([]T, error)

type span struct {
	start, end int
}

// FoldOrdered applies fn to every index in [0, n) and returns the
// concatenation of the per-chunk accumulators in index order.
//
// The first error cancels the context passed to fn; workers stop before
// their next index and the error is returned with no partial result.
func FoldOrdered[T any](ctx context.Context, p *Pool, n int, fn FoldFunc[T]) ([]T, error) {
	if n <= 0 {
		return nil, ctx.Err()
	}

	// no more workers than indices, which also keeps the product from overflowing
	chunks := partition(n, min(n, p.workers)*chunksPerWorker)
	parts := make([][]T, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(n, p.workers))
	for c, sp := range chunks {
		c, sp := c, sp
		g.Go(func() error {
			var acc []T
			for i := sp.start; i < sp.end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				var err error
				if acc, err = fn(gctx, i, acc); err != nil {
					return err
				}
			}
			parts[c] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, part := range parts {
		total += len(part)
	}
	out := make([]T, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

// partition splits [0, n) into at most maxChunks contiguous spans whose sizes
// differ by at most one.
func partition(n, maxChunks int) []span {
	chunks := min(n, maxChunks)
	size, extra := n/chunks, n%chunks

	spans := make([]span, 0, chunks)
	start := 0
	for c := 0; c < chunks; c++ {
		end := start + size
		if c < extra {
			end++
		}
		spans = append(spans, span{start: start, end: end})
		start = end
	}
	return spans
}
