package lzjd

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"
)

// K is the maximum number of phrase hashes kept in a digest.
const K = 1024

const (
	entrySize      = 4
	readBufferSize = 64 * 1024
)

// Digest is an immutable LZJD sketch: at most K phrase hashes sorted in
// ascending order. A Digest is safe for concurrent read-only use.
type Digest struct {
	entries []int32
}

// Build reads r to EOF and returns its digest. Bytes are consumed through a
// buffered reader, so the input never has to be resident in memory.
func Build(r io.Reader, family HashFamily) (*Digest, error) {
	return BuildK(r, family, K)
}

// BuildK is like Build but keeps at most k hashes.
func BuildK(r io.Reader, family HashFamily, k int) (*Digest, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	seen := make(map[int32]struct{})
	h := family.New()
	var one [1]byte

	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		one[0] = b
		_, _ = h.Write(one[:])

		v := int32(h.Sum32()) // #nosec G115 - hashes are stored as signed 32-bit values
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			h.Reset()
		}
	}

	entries := make([]int32, 0, len(seen))
	for v := range seen {
		entries = append(entries, v)
	}
	slices.Sort(entries)
	if len(entries) > k {
		entries = entries[:k]
	}
	return &Digest{entries: slices.Clip(entries)}, nil
}

// Len returns the number of hashes in the digest.
func (d *Digest) Len() int {
	return len(d.entries)
}

// Similarity returns the Jaccard index of the two hash sets in [0, 1].
// Two empty digests are identical; an empty digest shares nothing with a
// non-empty one.
func (d *Digest) Similarity(other *Digest) float64 {
	if len(d.entries) == 0 && len(other.entries) == 0 {
		return 1
	}
	shared := intersectionSize(d.entries, other.entries)
	union := len(d.entries) + len(other.entries) - shared
	return float64(shared) / float64(union)
}

func intersectionSize(a, b []int32) int {
	n := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// String returns the canonical text encoding: standard base64 of the hashes
// as big-endian 32-bit integers.
func (d *Digest) String() string {
	buf := make([]byte, len(d.entries)*entrySize)
	for i, v := range d.entries {
		binary.BigEndian.PutUint32(buf[i*entrySize:], uint32(v)) // #nosec G115 - bit pattern is preserved
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// Parse decodes the text encoding produced by String.
func Parse(s string) (*Digest, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	if len(buf)%entrySize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(buf))
	}

	entries := make([]int32, len(buf)/entrySize)
	for i := range entries {
		entries[i] = int32(binary.BigEndian.Uint32(buf[i*entrySize:])) // #nosec G115 - bit pattern is preserved
	}
	if !slices.IsSorted(entries) {
		slices.Sort(entries)
	}
	return &Digest{entries: entries}, nil
}
