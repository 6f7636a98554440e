package similarity

import (
	"fmt"
	"math"

	"github.com/isseis/go-lzjd/internal/lzjd"
)

// Result is one scored pair.
type Result struct {
	NameA string
	NameB string
	Score int // 0..100
}

// String returns the result line "<a>|<b>|<score>" with the score padded to
// three digits.
func (r Result) String() string {
	return fmt.Sprintf("%s|%s|%03d", r.NameA, r.NameB, r.Score)
}

// Score returns the similarity of a and b as a percentage rounded to the
// nearest integer, halves away from zero.
func Score(a, b *lzjd.Digest) int {
	return int(math.Round(a.Similarity(b) * 100))
}
