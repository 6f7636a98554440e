// Package sink provides the append-only line destination that digest records
// and comparison results are written to.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/safefileio"
)

const (
	outputFilePerm os.FileMode = 0o644
	bufferSize                 = 64 * 1024

	// StdoutName is the display name of the standard output sink.
	StdoutName = "<stdout>"
)

var (
	// ErrBrokenPipe indicates that the reader of the output went away.
	ErrBrokenPipe = errors.New("broken pipe")

	// ErrClosed indicates a write to a sink that was already closed.
	ErrClosed = errors.New("sink is closed")
)

// Sink accepts newline-terminated UTF-8 lines. Close flushes buffered data
// and must be called on every exit path.
type Sink interface {
	WriteLine(line string) error
	Close() error
}

// LineSink is a buffered Sink over a file or an already-open stream.
type LineSink struct {
	name   string
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// Open returns a sink for path. An empty path selects stdout, which is
// flushed but never closed by the sink. Otherwise a new file is created, or
// an existing regular file truncated; a symlink at path is refused.
func Open(path string, stdout io.Writer) (*LineSink, error) {
	if path == "" {
		return NewWriter(stdout, StdoutName), nil
	}

	f, err := safefileio.CreateFile(path, outputFilePerm)
	if err != nil {
		return nil, common.NewIOError("create", path, err)
	}
	s := NewWriter(f, path)
	s.closer = f
	return s, nil
}

// NewWriter wraps w. Closing the sink flushes w without closing it.
func NewWriter(w io.Writer, name string) *LineSink {
	return &LineSink{
		name: name,
		w:    bufio.NewWriterSize(w, bufferSize),
	}
}

// Name returns the path of the sink, or StdoutName.
func (s *LineSink) Name() string {
	return s.name
}

// WriteLine appends line followed by a newline.
func (s *LineSink) WriteLine(line string) error {
	if s.closed {
		return common.NewIOError("write", s.name, ErrClosed)
	}
	if _, err := s.w.WriteString(line); err != nil {
		return s.writeError(err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return s.writeError(err)
	}
	return nil
}

// Close flushes buffered lines and closes the underlying file, if owned.
// Calling Close more than once is a no-op.
func (s *LineSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.w.Flush()
	if err != nil {
		err = s.writeError(err)
	}
	if s.closer != nil {
		if closeErr := s.closer.Close(); closeErr != nil && err == nil {
			err = common.NewIOError("close", s.name, closeErr)
		}
	}
	return err
}

func (s *LineSink) writeError(err error) error {
	if IsBrokenPipe(err) {
		err = fmt.Errorf("%w: %w", ErrBrokenPipe, err)
	}
	return common.NewIOError("write", s.name, err)
}

// IsBrokenPipe reports whether err is a broken or closed pipe, as happens
// when output is piped into a consumer such as head that exits early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// CloseInto closes s and records the close error in *errp unless an earlier
// error is already there. Intended for use with defer.
func CloseInto(s Sink, errp *error) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil && *errp == nil {
		*errp = err
	}
}
