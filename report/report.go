// Package report renders the statistics of a simulation.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/cachesim/simulation"
	"github.com/sarchlab/cachesim/tracing"
)

// Format selects how the summary is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q, expected text or json", s)
	}
}

// Write renders the counters in the given format.
func Write(w io.Writer, f Format, c simulation.Counters) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, c)
	default:
		return WriteSummary(w, c)
	}
}

// WriteSummary prints the four metrics in their fixed order.
func WriteSummary(w io.Writer, c simulation.Counters) error {
	_, err := fmt.Fprintf(w,
		"Memory reads: %d\nMemory writes: %d\nCache hits: %d\nCache misses: %d\n",
		c.MemoryReads, c.MemoryWrites, c.Hits, c.Misses)

	return err
}

// WriteJSON prints the counters as a JSON object.
func WriteJSON(w io.Writer, c simulation.Counters) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(c)
}

// WriteSetUsage prints a table of per-set statistics.
func WriteSetUsage(w io.Writer, usage []tracing.SetUsage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Set\tAccesses\tHits\tMisses\tEvictions\t")
	for _, u := range usage {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t\n",
			u.SetID, u.Accesses(), u.Hits, u.Misses, u.Evictions)
	}

	return tw.Flush()
}
