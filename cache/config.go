package cache

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// AddressBits is the width of the addresses the cache decodes.
const AddressBits = 64

// AssociativityKind tells how the ways of a cache are organized.
type AssociativityKind int

const (
	// DirectMapped caches have exactly one way per set.
	DirectMapped AssociativityKind = iota
	// FullyAssociative caches have a single set holding every block.
	FullyAssociative
	// NWay caches have an explicit number of ways per set.
	NWay
)

// Associativity selects the way organization of a cache. Ways is only
// meaningful for NWay.
type Associativity struct {
	Kind AssociativityKind
	Ways int
}

func (a Associativity) String() string {
	switch a.Kind {
	case DirectMapped:
		return "direct"
	case FullyAssociative:
		return "assoc"
	case NWay:
		return fmt.Sprintf("assoc:%d", a.Ways)
	default:
		return "unknown"
	}
}

// ParseAssociativity converts the command-line style selector into an
// Associativity. It accepts "direct", "assoc" / "full" / "fully-associative",
// "assoc:N" and "N-way".
func ParseAssociativity(s string) (Associativity, error) {
	str := strings.ToLower(strings.TrimSpace(s))

	switch str {
	case "direct", "direct-mapped":
		return Associativity{Kind: DirectMapped}, nil
	case "assoc", "full", "fully-associative":
		return Associativity{Kind: FullyAssociative}, nil
	}

	var num string
	switch {
	case strings.HasPrefix(str, "assoc:"):
		num = strings.TrimPrefix(str, "assoc:")
	case strings.HasSuffix(str, "-way"):
		num = strings.TrimSuffix(str, "-way")
	default:
		return Associativity{}, &ConfigurationError{
			Field:  "associativity",
			Value:  s,
			Reason: "expected direct, assoc, assoc:N or N-way",
		}
	}

	ways, err := strconv.Atoi(num)
	if err != nil || ways <= 0 {
		return Associativity{}, &ConfigurationError{
			Field:  "associativity",
			Value:  s,
			Reason: "way count must be a positive integer",
		}
	}

	return Associativity{Kind: NWay, Ways: ways}, nil
}

// Config describes the geometry of a cache. It is a value type and is never
// modified after NewConfig returns it.
type Config struct {
	CacheByteSize uint64
	BlockByteSize uint64
	NumWays       int
	NumSets       int
}

// NewConfig derives a validated cache geometry from the cache size, the block
// size and the associativity selector.
func NewConfig(
	cacheByteSize, blockByteSize uint64,
	assoc Associativity,
) (Config, error) {
	if cacheByteSize == 0 {
		return Config{}, configErr("cache size", cacheByteSize,
			"must be positive")
	}

	if blockByteSize == 0 || !isPowerOfTwo(blockByteSize) {
		return Config{}, configErr("block size", blockByteSize,
			"must be a positive power of two")
	}

	if cacheByteSize%blockByteSize != 0 {
		return Config{}, configErr("block size", blockByteSize,
			fmt.Sprintf("does not divide the cache size %d", cacheByteSize))
	}

	numBlocks := cacheByteSize / blockByteSize

	var numWays, numSets uint64
	switch assoc.Kind {
	case DirectMapped:
		numWays, numSets = 1, numBlocks
	case FullyAssociative:
		numWays, numSets = numBlocks, 1
	case NWay:
		if assoc.Ways <= 0 {
			return Config{}, configErr("associativity", assoc.Ways,
				"way count must be positive")
		}

		numWays = uint64(assoc.Ways)
		if numBlocks%numWays != 0 {
			return Config{}, configErr("associativity", assoc.Ways,
				fmt.Sprintf("%d blocks cannot be split into %d-way sets",
					numBlocks, assoc.Ways))
		}

		numSets = numBlocks / numWays
	default:
		return Config{}, configErr("associativity", assoc.Kind,
			"unknown associativity kind")
	}

	c := Config{
		CacheByteSize: cacheByteSize,
		BlockByteSize: blockByteSize,
		NumWays:       int(numWays),
		NumSets:       int(numSets),
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the invariants of the geometry. NewConfig only returns
// configurations that pass Validate.
func (c Config) Validate() error {
	if c.NumSets < 1 || !isPowerOfTwo(uint64(c.NumSets)) {
		return configErr("set count", c.NumSets,
			"must be a power of two no less than 1")
	}

	if c.NumWays < 1 || !isPowerOfTwo(uint64(c.NumWays)) {
		return configErr("associativity", c.NumWays,
			"must be a power of two no less than 1")
	}

	if c.BlockByteSize == 0 || !isPowerOfTwo(c.BlockByteSize) {
		return configErr("block size", c.BlockByteSize,
			"must be a positive power of two")
	}

	total := uint64(c.NumSets) * uint64(c.NumWays) * c.BlockByteSize
	if total != c.CacheByteSize {
		return configErr("cache size", c.CacheByteSize,
			fmt.Sprintf("does not equal sets x ways x block size (%d)", total))
	}

	if c.IndexBits() > 32 {
		return configErr("set count", c.NumSets,
			"set index does not fit in 32 bits")
	}

	if c.OffsetBits() > 32 {
		return configErr("block size", c.BlockByteSize,
			"block offset does not fit in 32 bits")
	}

	if c.TagBits() < 0 {
		return configErr("cache size", c.CacheByteSize,
			"index and offset bits exceed the address width")
	}

	return nil
}

// OffsetBits is log2 of the block size.
func (c Config) OffsetBits() int {
	return log2(c.BlockByteSize)
}

// IndexBits is log2 of the number of sets.
func (c Config) IndexBits() int {
	return log2(uint64(c.NumSets))
}

// TagBits is the number of address bits left for the tag. It can be zero.
func (c Config) TagBits() int {
	return AddressBits - c.OffsetBits() - c.IndexBits()
}

// NumBlocks returns the total number of lines of the cache.
func (c Config) NumBlocks() int {
	return c.NumSets * c.NumWays
}

func (c Config) String() string {
	return fmt.Sprintf(
		"%dB cache, %dB blocks, %d sets x %d ways (tag %d, index %d, offset %d)",
		c.CacheByteSize, c.BlockByteSize, c.NumSets, c.NumWays,
		c.TagBits(), c.IndexBits(), c.OffsetBits())
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

func log2(n uint64) int {
	if n == 0 {
		return 0
	}

	return bits.TrailingZeros64(n)
}
