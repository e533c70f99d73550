package cache

import (
	"fmt"
	"strings"
)

// A ReplacementPolicy creates the per-set bookkeeping that decides which block
// gets evicted. One policy is shared by every set of a cache.
type ReplacementPolicy interface {
	Name() string
	NewSetState(numWays int) SetState
}

// SetState is the replacement state owned by a single set.
type SetState interface {
	// Visit is called once per access to the set, after the block at wayID
	// was hit or installed.
	Visit(set *Set, wayID int, installed bool)

	// FindVictim returns the way to overwrite when the set is full.
	FindVictim(set *Set) int
}

// ParsePolicy returns the replacement policy with the given name.
func ParsePolicy(name string) (ReplacementPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return FIFO{}, nil
	case "lru":
		return LRU{}, nil
	default:
		return nil, &ConfigurationError{
			Field:  "replacement policy",
			Value:  name,
			Reason: "expected fifo or lru",
		}
	}
}

// FIFO evicts blocks in the order they were installed. Hits never change the
// order.
type FIFO struct{}

// Name returns "fifo".
func (FIFO) Name() string { return "fifo" }

// NewSetState creates a round-robin victim pointer starting at way 0.
func (FIFO) NewSetState(numWays int) SetState {
	return &FIFOState{numWays: numWays}
}

// FIFOState cycles through the ways of a set.
type FIFOState struct {
	NextVictim int
	numWays    int
}

// Visit does nothing. Insertion order alone drives FIFO eviction.
func (s *FIFOState) Visit(_ *Set, _ int, _ bool) {}

// FindVictim returns the next way in round-robin order and advances the
// pointer.
func (s *FIFOState) FindVictim(_ *Set) int {
	victim := s.NextVictim
	s.NextVictim = (s.NextVictim + 1) % s.numWays

	return victim
}

// LRU evicts the least recently used block of a set.
type LRU struct{}

// Name returns "lru".
func (LRU) Name() string { return "lru" }

// NewSetState creates one age counter per way.
func (LRU) NewSetState(numWays int) SetState {
	return &LRUState{Ages: make([]int, numWays)}
}

// LRUState keeps an age per way. The most recently used way has age 0 and
// every other valid way grows one older on each access to the set.
type LRUState struct {
	Ages []int
}

// Visit marks wayID as the most recently used way and ages the rest.
func (s *LRUState) Visit(set *Set, wayID int, _ bool) {
	for i := range set.Blocks {
		switch {
		case i == wayID:
			s.Ages[i] = 0
		case set.Blocks[i].IsValid:
			s.Ages[i]++
		}
	}
}

// FindVictim returns the oldest way. Ties go to the lowest way index.
func (s *LRUState) FindVictim(_ *Set) int {
	victim := 0

	for i := 1; i < len(s.Ages); i++ {
		if s.Ages[i] > s.Ages[victim] {
			victim = i
		}
	}

	return victim
}

func (s *LRUState) String() string {
	return fmt.Sprintf("lru%v", s.Ages)
}
