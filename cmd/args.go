package cmd

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/cachesim/cache"
)

// parseGeometry turns the cache size, block size and associativity arguments
// into a validated configuration.
func parseGeometry(cacheSize, blockSize, assoc string) (cache.Config, error) {
	size, err := parseSize("cache size", cacheSize)
	if err != nil {
		return cache.Config{}, err
	}

	block, err := parseSize("block size", blockSize)
	if err != nil {
		return cache.Config{}, err
	}

	a, err := cache.ParseAssociativity(assoc)
	if err != nil {
		return cache.Config{}, err
	}

	return cache.NewConfig(size, block, a)
}

// parseSize accepts decimal, 0x hexadecimal, 0o octal and 0b binary byte
// counts. Leading zeros without a prefix are decimal, so "010" is ten.
func parseSize(field, s string) (uint64, error) {
	base := 0
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		base = 10
	}

	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, &cache.ConfigurationError{
			Field:  field,
			Value:  s,
			Reason: fmt.Sprintf("not a byte count (%v)", err.(*strconv.NumError).Err),
		}
	}

	return v, nil
}
