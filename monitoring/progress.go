package monitoring

import (
	"time"

	"github.com/sarchlab/cachesim/simulation"
)

// Progress is a snapshot of a running simulation.
type Progress struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	StartTime time.Time           `json:"start_time"`
	Elapsed   float64             `json:"elapsed_sec"`
	Entries   uint64              `json:"entries"`
	Evictions uint64              `json:"evictions"`
	Counters  simulation.Counters `json:"counters"`
	HitRate   float64             `json:"hit_rate"`
	Done      bool                `json:"done"`
}

func (p *Progress) record(r simulation.AccessResult, c simulation.Counters) {
	p.Entries = r.Seq
	p.Counters = c

	if r.Evicted {
		p.Evictions++
	}
}

func (p *Progress) finish(c simulation.Counters) {
	p.Counters = c
	p.Done = true
}

func (p Progress) snapshot(now time.Time) Progress {
	p.Elapsed = now.Sub(p.StartTime).Seconds()
	p.HitRate = p.Counters.HitRate()

	return p
}
