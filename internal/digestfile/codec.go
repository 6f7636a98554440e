// Package digestfile encodes digest records as text lines and reads them back.
//
// A record line has the form
//
//	lzjd:<name>:<base64 digest>
//
// The name is everything between the prefix and the last colon, so names may
// themselves contain colons.
package digestfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/sink"
)

// Prefix starts every record line.
const Prefix = "lzjd:"

const maxLineSize = 4 * 1024 * 1024

// ErrMalformedLine indicates a line without the prefix, a name or a payload separator.
var ErrMalformedLine = errors.New("malformed digest record line")

// Record pairs a digest with the name of the input it was built from.
type Record struct {
	Digest *lzjd.Digest
	Name   string
}

// Encode returns the record line for rec, without a trailing newline.
func Encode(rec Record) string {
	return Prefix + rec.Name + ":" + rec.Digest.String()
}

// Decode parses a single record line. Surrounding whitespace is ignored.
func Decode(line string) (Record, error) {
	rec, err := decode(line)
	if err != nil {
		return Record{}, common.NewParseError("", 0, err)
	}
	return rec, nil
}

func decode(line string) (Record, error) {
	line = strings.TrimSpace(line)
	sep := strings.LastIndexByte(line, ':')
	if sep <= len(Prefix) || !strings.HasPrefix(line, Prefix) {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, truncate(line))
	}

	digest, err := lzjd.Parse(line[sep+1:])
	if err != nil {
		return Record{}, err
	}
	return Record{Digest: digest, Name: line[len(Prefix):sep]}, nil
}

func truncate(s string) string {
	const maxShown = 80
	if len(s) <= maxShown {
		return s
	}
	return s[:maxShown] + "..."
}

// Read decodes every non-blank line of r. The first malformed line aborts the
// read; no records are returned in that case.
func Read(r io.Reader) ([]Record, error) {
	return read(r, "")
}

// ReadFile reads the records stored at path.
func ReadFile(path string) ([]Record, error) {
	// #nosec G304 - digest files are operator-supplied inputs
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewIOError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return read(f, path)
}

func read(r io.Reader, source string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := decode(line)
		if err != nil {
			return nil, common.NewParseError(source, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, common.NewParseError(source, lineNo+1, err)
		}
		return nil, common.NewIOError("read", source, err)
	}
	return records, nil
}

// Write writes one record line per record, in order.
func Write(out sink.Sink, records []Record) error {
	for _, rec := range records {
		if err := out.WriteLine(Encode(rec)); err != nil {
			return err
		}
	}
	return nil
}
