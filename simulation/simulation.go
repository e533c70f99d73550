// Package simulation drives a cache model over a memory access trace and
// accumulates the access statistics.
package simulation

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

// An EntrySource produces trace entries. Next returns io.EOF once the trace
// has ended.
type EntrySource interface {
	Next() (trace.Entry, error)
}

// Counters are the statistics of a run.
type Counters struct {
	MemoryReads  uint64 `json:"memory_reads"`
	MemoryWrites uint64 `json:"memory_writes"`
	Hits         uint64 `json:"cache_hits"`
	Misses       uint64 `json:"cache_misses"`
}

// Accesses returns the number of trace entries counted.
func (c Counters) Accesses() uint64 {
	return c.Hits + c.Misses
}

// HitRate returns the fraction of accesses that hit, or 0 without accesses.
func (c Counters) HitRate() float64 {
	if c.Accesses() == 0 {
		return 0
	}

	return float64(c.Hits) / float64(c.Accesses())
}

// AccessResult describes how the cache resolved one trace entry.
type AccessResult struct {
	Seq        uint64
	Entry      trace.Entry
	SetID      int
	WayID      int
	Hit        bool
	Evicted    bool
	EvictedTag uint64
	Tag        uint64
}

// A Simulator feeds trace entries into a tag array one at a time.
type Simulator struct {
	hookList

	config   cache.Config
	policy   cache.ReplacementPolicy
	tags     cache.TagArray
	logger   zerolog.Logger
	counters Counters
	seq      uint64
}

// Config returns the cache geometry being simulated.
func (s *Simulator) Config() cache.Config {
	return s.config
}

// Policy returns the replacement policy in use.
func (s *Simulator) Policy() cache.ReplacementPolicy {
	return s.policy
}

// Tags returns the tag array driven by the simulator.
func (s *Simulator) Tags() cache.TagArray {
	return s.tags
}

// Counters returns the statistics accumulated so far.
func (s *Simulator) Counters() Counters {
	return s.counters
}

// Run consumes src until it ends and returns the statistics of the run. If src
// fails, Run returns the error and no statistics.
func (s *Simulator) Run(src EntrySource) (Counters, error) {
	s.logger.Debug().
		Str("cache", s.config.String()).
		Str("policy", s.policy.Name()).
		Msg("simulation started")

	for {
		entry, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			s.logger.Error().Err(err).Uint64("entries", s.seq).
				Msg("simulation aborted")

			return Counters{}, err
		}

		s.Access(entry)
	}

	if s.NumHooks() > 0 {
		s.invoke(HookCtx{
			Domain: s,
			Pos:    HookPosRunEnd,
			Detail: s.counters,
		})
	}

	s.logger.Debug().
		Uint64("hits", s.counters.Hits).
		Uint64("misses", s.counters.Misses).
		Msg("simulation finished")

	return s.counters, nil
}

// Access resolves a single trace entry against the cache.
func (s *Simulator) Access(entry trace.Entry) AccessResult {
	s.seq++
	result := AccessResult{Seq: s.seq, Entry: entry}

	block, hit := s.tags.Lookup(entry.Address)
	if hit {
		s.counters.Hits++
	} else {
		s.counters.Misses++
		s.counters.MemoryReads++

		installation := s.tags.Install(entry.Address)
		block = installation.Block
		result.Evicted = installation.Evicted
		result.EvictedTag = installation.Victim.Tag
	}

	if entry.Kind == trace.Write {
		s.counters.MemoryWrites++
	}

	result.Hit = hit
	result.SetID = block.SetID
	result.WayID = block.WayID
	result.Tag = block.Tag

	if s.NumHooks() > 0 {
		s.invoke(HookCtx{
			Domain: s,
			Pos:    HookPosAccess,
			Detail: result,
		})
	}

	return result
}

// Reset empties the cache and clears the counters so that a new trace can be
// simulated from a cold cache.
func (s *Simulator) Reset() {
	s.tags.Reset()
	s.counters = Counters{}
	s.seq = 0
}
