// Package cache models the tag store of a set-associative cache together with
// its replacement policies.
package cache

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
}

// A Set is a list of blocks where a certain piece of memory can be stored at.
type Set struct {
	Blocks []Block

	state SetState
}

// State returns the replacement bookkeeping of the set.
func (s *Set) State() SetState {
	return s.state
}

// NumValid returns how many blocks of the set hold data.
func (s *Set) NumValid() int {
	n := 0

	for _, b := range s.Blocks {
		if b.IsValid {
			n++
		}
	}

	return n
}

func (s *Set) findTag(tag uint64) (wayID int, ok bool) {
	for i, b := range s.Blocks {
		if b.IsValid && b.Tag == tag {
			return i, true
		}
	}

	return 0, false
}

func (s *Set) findInvalid() (wayID int, ok bool) {
	for i, b := range s.Blocks {
		if !b.IsValid {
			return i, true
		}
	}

	return 0, false
}
