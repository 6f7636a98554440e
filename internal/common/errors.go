// Package common provides shared utilities and error definitions used across multiple packages.
package common

import (
	"errors"
	"strconv"
	"strings"
)

// Error kinds. Every failure surfaced by a run wraps exactly one of these so
// callers can classify it with errors.Is.
var (
	// ErrIO indicates a file open, read, create or write failure.
	ErrIO = errors.New("i/o error")

	// ErrParse indicates a malformed digest record line or digest payload.
	ErrParse = errors.New("parse error")

	// ErrArity indicates that compare mode received the wrong number of digest sets.
	ErrArity = errors.New("arity error")

	// ErrPoolInit indicates that the worker pool could not be constructed.
	ErrPoolInit = errors.New("worker pool init error")

	// ErrUsage indicates invalid run options or configuration values.
	ErrUsage = errors.New("usage error")
)

// Error carries an error kind together with the operation and location that
// produced it.
type Error struct {
	Kind error  // one of the Err* kinds above
	Op   string // operation, e.g. "open" or "decode digest record"
	Path string // offending file, if any
	Line int    // 1-based line number, if any
	Err  error  // underlying cause
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteByte(' ')
		b.WriteString(e.Path)
		if e.Line > 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(e.Line))
		}
	} else if e.Line > 0 {
		b.WriteString(" line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewIOError wraps err as an ErrIO failure of op on path.
func NewIOError(op, path string, err error) *Error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

// NewParseError wraps err as an ErrParse failure at path:line.
// path may be empty and line may be zero when unknown.
func NewParseError(path string, line int, err error) *Error {
	return &Error{Kind: ErrParse, Op: "decode digest record", Path: path, Line: line, Err: err}
}

// KindName returns a short label for the kind of err, or "error" when err
// does not carry one of the known kinds.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrIO):
		return "IOError"
	case errors.Is(err, ErrParse):
		return "ParseError"
	case errors.Is(err, ErrArity):
		return "ArityError"
	case errors.Is(err, ErrPoolInit):
		return "PoolInitError"
	case errors.Is(err, ErrUsage):
		return "UsageError"
	default:
		return "error"
	}
}
