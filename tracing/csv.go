package tracing

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/simulation"
	"github.com/tebeka/atexit"
)

// CSVTracer is an access tracer that stores every access into a CSV file.
type CSVTracer struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	closed bool

	records    []simulation.AccessResult
	bufferSize int
}

// NewCSVTracer creates a new CSVTracer.
func NewCSVTracer(path string) *CSVTracer {
	return &CSVTracer{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file the tracer writes to.
func (t *CSVTracer) Path() string {
	return t.path
}

// Init creates the tracing csv file. If the file already exists, it will be
// overwritten.
func (t *CSVTracer) Init() error {
	file, err := os.Create(t.path)
	if err != nil {
		return err
	}

	t.file = file
	t.writer = bufio.NewWriter(file)

	fmt.Fprintf(t.writer,
		"Seq, Kind, Address, Set, Way, Tag, Hit, Evicted, EvictedTag\n")

	atexit.Register(func() {
		_ = t.Close()
	})

	return nil
}

// Func records accesses and flushes at the end of a run.
func (t *CSVTracer) Func(ctx simulation.HookCtx) {
	if ctx.Pos == simulation.HookPosRunEnd {
		_ = t.Flush()
		return
	}

	r, ok := accessFromCtx(ctx)
	if !ok {
		return
	}

	t.records = append(t.records, r)
	if len(t.records) >= t.bufferSize {
		_ = t.Flush()
	}
}

// Flush writes the buffered records to the CSV file.
func (t *CSVTracer) Flush() error {
	if t.closed || t.writer == nil {
		return nil
	}

	for _, r := range t.records {
		fmt.Fprintf(t.writer, "%d, %s, %s, %d, %d, %s, %d, %d, %s\n",
			r.Seq,
			r.Entry.Kind,
			hex(r.Entry.Address),
			r.SetID,
			r.WayID,
			hex(r.Tag),
			boolToInt(r.Hit),
			boolToInt(r.Evicted),
			hex(r.EvictedTag),
		)
	}

	t.records = nil

	return t.writer.Flush()
}

// Close flushes the remaining records and closes the file.
func (t *CSVTracer) Close() error {
	if t.closed || t.file == nil {
		return nil
	}

	if err := t.Flush(); err != nil {
		return err
	}

	t.closed = true

	return t.file.Close()
}
