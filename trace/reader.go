package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// MaxLineBytes is the longest line a Reader buffers. Longer lines are consumed
// to their end and treated as malformed.
const MaxLineBytes = 64 * 1024

// A Reader produces the entries of a trace one at a time. A Reader is consumed
// by a single pass; reading a trace again requires a new Reader.
type Reader struct {
	in     *bufio.Reader
	path   string
	strict bool
	logger zerolog.Logger

	lineNo  int
	skipped int
	done    bool
}

// NewReader creates a Reader that skips malformed lines.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		in:     bufio.NewReaderSize(r, MaxLineBytes),
		logger: zerolog.Nop(),
	}
}

// WithStrict makes the reader return malformed lines as errors instead of
// skipping them.
func (r *Reader) WithStrict(strict bool) *Reader {
	r.strict = strict
	return r
}

// WithLogger sets the logger used to report skipped lines.
func (r *Reader) WithLogger(logger zerolog.Logger) *Reader {
	r.logger = logger
	return r
}

// Next returns the next entry. It returns io.EOF at the end marker or at the
// end of the input.
func (r *Reader) Next() (Entry, error) {
	if r.done {
		return Entry{}, io.EOF
	}

	for {
		raw, tooLong, err := r.readLine()
		if err != nil {
			r.done = true

			if errors.Is(err, io.EOF) {
				return Entry{}, io.EOF
			}

			return Entry{}, &IOError{Path: r.path, Err: err}
		}

		r.lineNo++

		line := strings.TrimSpace(raw)
		if line == "" && !tooLong {
			continue
		}

		if line == EndMarker {
			r.done = true
			return Entry{}, io.EOF
		}

		var entry Entry
		if tooLong {
			err = &MalformedLineError{
				Text:   line + "...",
				Reason: fmt.Sprintf("line is longer than %d bytes", MaxLineBytes),
			}
		} else {
			entry, err = ParseLine(line)
		}

		if err == nil {
			return entry, nil
		}

		var malformed *MalformedLineError
		if errors.As(err, &malformed) {
			malformed.Line = r.lineNo
		}

		if r.strict {
			r.done = true
			return Entry{}, err
		}

		r.skipped++
		r.logger.Warn().
			Int("line", r.lineNo).
			Str("text", line).
			Msg("skipping malformed trace line")
	}
}

// readLine returns the next line with its terminator. A line that does not fit
// the buffer is read to its end, only its head is kept, and tooLong is set. The
// last line of the input needs no terminator.
func (r *Reader) readLine() (line string, tooLong bool, err error) {
	buf, err := r.in.ReadSlice('\n')
	line = string(buf)

	for errors.Is(err, bufio.ErrBufferFull) {
		tooLong = true
		_, err = r.in.ReadSlice('\n')
	}

	if tooLong && len(line) > lineHeadBytes {
		line = line[:lineHeadBytes]
	}

	if errors.Is(err, io.EOF) && (line != "" || tooLong) {
		err = nil
	}

	return line, tooLong, err
}

const lineHeadBytes = 32

// Skipped returns the number of malformed lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.lineNo
}

// File is a Reader over a trace file.
type File struct {
	*Reader
	file *os.File
}

// Open opens a trace file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	reader := NewReader(f)
	reader.path = path

	return &File{Reader: reader, file: f}, nil
}

// Path returns the path of the file.
func (f *File) Path() string {
	return f.path
}

// Close closes the file.
func (f *File) Close() error {
	return f.file.Close()
}
