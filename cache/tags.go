package cache

import "fmt"

// A TagArray tracks which blocks a cache currently holds.
type TagArray interface {
	// Lookup reports whether addr is cached. A hit updates the replacement
	// state of the set; a miss changes nothing.
	Lookup(addr uint64) (Block, bool)

	// Install places addr in its set after a miss, evicting a block when the
	// set is full.
	Install(addr uint64) Installation

	// GetSet returns the set that addr maps to.
	GetSet(addr uint64) (set *Set, setID int)

	NumSets() int
	NumWays() int

	// NumValid returns the number of valid blocks across all sets.
	NumValid() int

	// Reset invalidates every block and restarts the replacement state.
	Reset()
}

// Installation describes the effect of installing a block.
type Installation struct {
	Block   Block
	Evicted bool
	Victim  Block
}

// NewTagArray returns a tag array for the given geometry and policy.
func NewTagArray(c Config, policy ReplacementPolicy) TagArray {
	return NewStore(c, policy)
}

// Store is the TagArray that owns every set of a cache.
type Store struct {
	config  Config
	decoder AddressDecoder
	policy  ReplacementPolicy
	sets    []Set
}

// NewStore allocates all sets of the cache. The config must be valid.
func NewStore(c Config, policy ReplacementPolicy) *Store {
	if err := c.Validate(); err != nil {
		panic(err)
	}

	s := &Store{
		config:  c,
		decoder: NewAddressDecoder(c),
		policy:  policy,
	}

	s.Reset()

	return s
}

// Config returns the geometry of the store.
func (s *Store) Config() Config {
	return s.config
}

// Policy returns the replacement policy used by every set.
func (s *Store) Policy() ReplacementPolicy {
	return s.policy
}

// Decoder returns the address decoder of the store.
func (s *Store) Decoder() AddressDecoder {
	return s.decoder
}

// NumSets returns the number of sets.
func (s *Store) NumSets() int {
	return s.config.NumSets
}

// NumWays returns the number of ways per set.
func (s *Store) NumWays() int {
	return s.config.NumWays
}

// Set returns the set at the given index.
func (s *Store) Set(setID int) *Set {
	return &s.sets[setID]
}

// GetSet returns the set that addr maps to.
func (s *Store) GetSet(addr uint64) (set *Set, setID int) {
	_, index, _ := s.decoder.Decode(addr)
	setID = int(index)
	set = &s.sets[setID]

	return set, setID
}

// Lookup finds the block that holds addr.
func (s *Store) Lookup(addr uint64) (Block, bool) {
	tag, index, _ := s.decoder.Decode(addr)
	set := &s.sets[index]

	wayID, ok := set.findTag(tag)
	if !ok {
		return Block{}, false
	}

	set.state.Visit(set, wayID, false)

	return set.Blocks[wayID], true
}

// Install puts addr into the first free way of its set, or into the victim
// chosen by the replacement policy. It must only follow a missed Lookup.
func (s *Store) Install(addr uint64) Installation {
	tag, index, _ := s.decoder.Decode(addr)
	set := &s.sets[index]

	if _, ok := set.findTag(tag); ok {
		panic(fmt.Sprintf("address 0x%016x is already cached", addr))
	}

	result := Installation{}

	wayID, ok := set.findInvalid()
	if !ok {
		wayID = set.state.FindVictim(set)
		result.Evicted = true
		result.Victim = set.Blocks[wayID]
	}

	block := &set.Blocks[wayID]
	block.Tag = tag
	block.IsValid = true

	set.state.Visit(set, wayID, true)

	result.Block = *block

	return result
}

// NumValid counts the valid blocks of all sets.
func (s *Store) NumValid() int {
	n := 0
	for i := range s.sets {
		n += s.sets[i].NumValid()
	}

	return n
}

// Reset will mark all the blocks in the store invalid.
func (s *Store) Reset() {
	s.sets = make([]Set, s.config.NumSets)
	for i := range s.sets {
		blocks := make([]Block, s.config.NumWays)
		for j := range blocks {
			blocks[j] = Block{SetID: i, WayID: j}
		}

		s.sets[i] = Set{
			Blocks: blocks,
			state:  s.policy.NewSetState(s.config.NumWays),
		}
	}
}
