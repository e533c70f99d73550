package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cachesim/simulation"
	"github.com/tebeka/atexit"
)

type jsonAccess struct {
	Seq        uint64 `json:"seq"`
	Kind       string `json:"kind"`
	Address    string `json:"address"`
	SetID      int    `json:"set"`
	WayID      int    `json:"way"`
	Tag        string `json:"tag"`
	Hit        bool   `json:"hit"`
	Evicted    bool   `json:"evicted"`
	EvictedTag string `json:"evicted_tag,omitempty"`
}

// JSONTracer writes every access as an element of a JSON array.
type JSONTracer struct {
	w         io.Writer
	file      *os.File
	firstItem bool
	finished  bool
}

// NewJSONTracer creates a JSONTracer that writes to w.
func NewJSONTracer(w io.Writer) *JSONTracer {
	t := &JSONTracer{w: w, firstItem: true}
	t.write("[\n")

	return t
}

// NewJSONFileTracer creates the file at path and writes the array into it. The
// array is closed at the end of the run or when the program exits.
func NewJSONFileTracer(path string) (*JSONTracer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	t := NewJSONTracer(f)
	t.file = f

	atexit.Register(func() { _ = t.Close() })

	return t, nil
}

// Func records accesses and closes the array at the end of the run.
func (t *JSONTracer) Func(ctx simulation.HookCtx) {
	if ctx.Pos == simulation.HookPosRunEnd {
		t.finish()
		return
	}

	r, ok := accessFromCtx(ctx)
	if !ok || t.finished {
		return
	}

	rec := jsonAccess{
		Seq:     r.Seq,
		Kind:    r.Entry.Kind.String(),
		Address: hex(r.Entry.Address),
		SetID:   r.SetID,
		WayID:   r.WayID,
		Tag:     hex(r.Tag),
		Hit:     r.Hit,
		Evicted: r.Evicted,
	}
	if r.Evicted {
		rec.EvictedTag = hex(r.EvictedTag)
	}

	b, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}

	if t.firstItem {
		t.firstItem = false
	} else {
		t.write(",\n")
	}

	t.write(string(b))
}

func (t *JSONTracer) finish() {
	if t.finished {
		return
	}

	t.finished = true
	t.write("\n]\n")
}

// Close terminates the array and closes the file, if the tracer owns one.
func (t *JSONTracer) Close() error {
	t.finish()

	if t.file == nil {
		return nil
	}

	err := t.file.Close()
	t.file = nil

	return err
}

func (t *JSONTracer) write(s string) {
	if _, err := io.WriteString(t.w, s); err != nil {
		panic(fmt.Errorf("writing json trace: %w", err))
	}
}
