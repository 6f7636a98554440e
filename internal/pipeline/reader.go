package pipeline

import (
	"context"
	"io"
)

// contextReader stops reading once ctx is done, so a sibling failure
// interrupts long reads instead of waiting for them to finish.
type contextReader struct {
	ctx context.Context
	r   io.Reader
	n   int64
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
