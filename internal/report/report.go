// Package report writes comparison results to a sink in one of several
// formats. The text format is the stable interchange format; the others are
// conveniences for tooling and terminals.
package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/isseis/go-lzjd/internal/similarity"
	"github.com/isseis/go-lzjd/internal/sink"
)

// Format names.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
	FormatTable = "table"
)

// ErrUnknownFormat indicates that no writer is registered for a format name.
var ErrUnknownFormat = errors.New("unknown output format")

// WriterFunc writes results to out.
type WriterFunc func(out sink.Sink, results []similarity.Result) error

var writers = map[string]WriterFunc{
	FormatText:  writeText,
	FormatJSONL: writeJSONL,
	FormatTable: writeTable,
}

// Write renders results in the named format.
func Write(format string, out sink.Sink, results []similarity.Result) error {
	fn, ok := writers[format]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fn(out, results)
}

// Validate reports whether format has a registered writer.
func Validate(format string) error {
	if _, ok := writers[format]; !ok {
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, format, Formats())
	}
	return nil
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeText(out sink.Sink, results []similarity.Result) error {
	for _, r := range results {
		if err := out.WriteLine(r.String()); err != nil {
			return err
		}
	}
	return nil
}
