// Package trace reads memory access traces made of "<R|W> <hex address>"
// lines terminated by an optional "#eof" marker.
package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// EndMarker ends a trace. Lines after it are never read.
const EndMarker = "#eof"

// Kind tells whether an access reads or writes memory.
type Kind int

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	switch k {
	case Read:
		return "R"
	case Write:
		return "W"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one access of a trace.
type Entry struct {
	Kind    Kind
	Address uint64
}

func (e Entry) String() string {
	return fmt.Sprintf("%s 0x%x", e.Kind, e.Address)
}

// ParseLine parses a single "<R|W> <hex address>" line. The address may carry
// a 0x prefix.
func ParseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Entry{}, &MalformedLineError{Text: line, Reason: "expected two fields"}
	}

	var kind Kind
	switch fields[0] {
	case "R", "r":
		kind = Read
	case "W", "w":
		kind = Write
	default:
		return Entry{}, &MalformedLineError{
			Text:   line,
			Reason: fmt.Sprintf("unknown access kind %q", fields[0]),
		}
	}

	hex := fields[1]
	if len(hex) > 2 && (hex[:2] == "0x" || hex[:2] == "0X") {
		hex = hex[2:]
	}

	addr, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Entry{}, &MalformedLineError{
			Text:   line,
			Reason: fmt.Sprintf("bad address %q", fields[1]),
		}
	}

	return Entry{Kind: kind, Address: addr}, nil
}
