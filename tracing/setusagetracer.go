package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/cachesim/simulation"
)

// SetUsage holds the access statistics of one set.
type SetUsage struct {
	SetID     int    `json:"set_id"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Accesses returns the number of accesses that mapped to the set.
func (u SetUsage) Accesses() uint64 {
	return u.Hits + u.Misses
}

// SetUsageTracer counts hits, misses and evictions per set.
type SetUsageTracer struct {
	lock  sync.Mutex
	usage map[int]*SetUsage
}

// NewSetUsageTracer creates a new SetUsageTracer
func NewSetUsageTracer() *SetUsageTracer {
	return &SetUsageTracer{
		usage: make(map[int]*SetUsage),
	}
}

// Func counts an access.
func (t *SetUsageTracer) Func(ctx simulation.HookCtx) {
	r, ok := accessFromCtx(ctx)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	u, found := t.usage[r.SetID]
	if !found {
		u = &SetUsage{SetID: r.SetID}
		t.usage[r.SetID] = u
	}

	if r.Hit {
		u.Hits++
	} else {
		u.Misses++
	}

	if r.Evicted {
		u.Evictions++
	}
}

// Usage returns the statistics of every set that was accessed, ordered by
// set ID.
func (t *SetUsageTracer) Usage() []SetUsage {
	t.lock.Lock()
	defer t.lock.Unlock()

	list := make([]SetUsage, 0, len(t.usage))
	for _, u := range t.usage {
		list = append(list, *u)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].SetID < list[j].SetID
	})

	return list
}

// Hottest returns up to n sets with the most misses. Ties keep set order.
func (t *SetUsageTracer) Hottest(n int) []SetUsage {
	list := t.Usage()

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Misses > list[j].Misses
	})

	if n >= 0 && n < len(list) {
		list = list[:n]
	}

	return list
}
