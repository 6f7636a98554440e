package lzjd

import (
	"fmt"
	"hash/crc32"
	"io"
	"sort"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher is a streaming 32-bit hash. Sum32 must not change the hasher state.
type Hasher interface {
	io.Writer
	Sum32() uint32
	Reset()
}

// HashFamily defines the keyed hash function that seeds sketch construction.
// Every sketch compared in one run must come from the same family.
type HashFamily interface {
	// Name returns the family name (e.g., "murmur3").
	Name() string

	// New returns a fresh hasher in its initial state.
	New() Hasher
}

// Murmur3 implements HashFamily with 32-bit MurmurHash3.
type Murmur3 struct {
	Seed uint32
}

// Name returns "murmur3".
func (m *Murmur3) Name() string {
	return "murmur3"
}

// New returns a seeded MurmurHash3 hasher.
func (m *Murmur3) New() Hasher {
	return murmur3.New32WithSeed(m.Seed)
}

// XXH3 implements HashFamily with the low 32 bits of XXH3-64.
type XXH3 struct{}

// Name returns "xxh3".
func (x *XXH3) Name() string {
	return "xxh3"
}

// New returns an XXH3 hasher.
func (x *XXH3) New() Hasher {
	return xxh3Hasher{xxh3.New()}
}

type xxh3Hasher struct {
	*xxh3.Hasher
}

func (h xxh3Hasher) Sum32() uint32 {
	return uint32(h.Sum64()) // #nosec G115 - truncation is intended
}

// CRC32 implements HashFamily with the IEEE CRC-32 checksum.
type CRC32 struct{}

// Name returns "crc32".
func (c *CRC32) Name() string {
	return "crc32"
}

// New returns an IEEE CRC-32 hasher.
func (c *CRC32) New() Hasher {
	return crc32.NewIEEE()
}

// DefaultFamilyName is the hash family used when none is configured.
const DefaultFamilyName = "murmur3"

var families = map[string]func() HashFamily{
	"murmur3": func() HashFamily { return &Murmur3{} },
	"xxh3":    func() HashFamily { return &XXH3{} },
	"crc32":   func() HashFamily { return &CRC32{} },
}

// FamilyByName returns the hash family registered under name.
func FamilyByName(name string) (HashFamily, error) {
	ctor, ok := families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownHashFamily, name, FamilyNames())
	}
	return ctor(), nil
}

// FamilyNames returns the registered family names in sorted order.
func FamilyNames() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
