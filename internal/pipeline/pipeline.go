package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/digestfile"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/sink"
	"github.com/isseis/go-lzjd/internal/workerpool"
)

// HashFiles builds one digest per path with the given hash family and
// returns the records in the order of paths. Each record is named by its path
// as given.
//
// When out is non-nil the encoded records are written to it, in the same
// order, after every file has been digested.
func HashFiles(
	ctx context.Context,
	pool *workerpool.Pool,
	paths []string,
	family lzjd.HashFamily,
	out sink.Sink,
) ([]digestfile.Record, error) {
	start := time.Now()
	var totalBytes atomic.Int64

	records, err := workerpool.FoldOrdered(ctx, pool, len(paths),
		func(ctx context.Context, i int, acc []digestfile.Record) ([]digestfile.Record, error) {
			rec, n, err := hashFile(ctx, paths[i], family)
			if err != nil {
				return nil, err
			}
			totalBytes.Add(n)
			return append(acc, rec), nil
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Digests generated",
		"files", len(records),
		"bytes", humanize.Bytes(uint64(totalBytes.Load())), // #nosec G115 - byte counts are non-negative
		"hash", family.Name(),
		"workers", pool.Workers(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if out != nil {
		if err := digestfile.Write(out, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func hashFile(ctx context.Context, path string, family lzjd.HashFamily) (digestfile.Record, int64, error) {
	// #nosec G304 - inputs are operator-supplied sample paths
	f, err := os.Open(path)
	if err != nil {
		return digestfile.Record{}, 0, common.NewIOError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	cr := &contextReader{ctx: ctx, r: f}
	digest, err := lzjd.Build(cr, family)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return digestfile.Record{}, 0, err
		}
		return digestfile.Record{}, 0, common.NewIOError("read", path, err)
	}

	slog.Debug("Digested file", "path", path, "size", cr.n, "entries", digest.Len())
	return digestfile.Record{Digest: digest, Name: path}, cr.n, nil
}
