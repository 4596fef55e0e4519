package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode writes one "<kind> <a> <b>" line per event.
func Encode(w io.Writer, l Log) error {
	bw := bufio.NewWriter(w)
	for _, ev := range l {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", uint8(ev.Kind), ev.A, ev.B); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

// Decode reads events until r is exhausted.
//
// Decoding is best-effort: blank lines are skipped, and a record with fewer
// than three usable integer fields gets zeros for the missing or garbled ones.
// A truncated trailing record therefore decodes to a zero-valued (or partially
// filled) event instead of failing. Lines may be of any length. Only read
// errors are returned.
func Decode(r io.Reader) (Log, error) {
	var out Log
	err := eachLine(r, func(_ int, text string) error {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return nil
		}
		var vals [3]int64
		for i := 0; i < len(vals) && i < len(fields); i++ {
			v, err := strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				continue
			}
			vals[i] = v
		}
		out = append(out, Event{Kind: kindFromCode(vals[0]), A: vals[1], B: vals[2]})
		return nil
	})
	return out, err
}

// eachLine calls fn with every line of r, numbered from 1, without the line
// length cap of bufio.Scanner. A final line without a newline is included.
func eachLine(r io.Reader, fn func(n int, text string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := fn(n, strings.TrimRight(line, "\r\n")); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode events: %w", err)
		}
	}
}

// kindFromCode maps codes outside the Kind range to an invalid kind, so they
// are skipped at dispatch instead of aliasing a real one.
func kindFromCode(v int64) Kind {
	if v < 0 || v >= int64(kindCount) {
		return Kind(0xFF)
	}
	return Kind(v)
}

// ParseError describes a record rejected by DecodeStrict.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("event log line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errFieldCount  = errors.New("want 3 fields")
	errUnknownKind = errors.New("unknown event kind")
)

// DecodeStrict is Decode without the best-effort repair: any record that is
// not exactly three integers with a known kind yields a *ParseError.
// lineOffset is added to reported line numbers (e.g. 1 for a session header).
func DecodeStrict(r io.Reader, lineOffset int) (Log, error) {
	var out Log
	err := eachLine(r, func(n int, text string) error {
		line := lineOffset + n
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return nil
		}
		if len(fields) != 3 {
			return &ParseError{Line: line, Text: text, Err: errFieldCount}
		}
		var vals [3]int64
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return &ParseError{Line: line, Text: text, Err: err}
			}
			vals[i] = v
		}
		if !kindFromCode(vals[0]).Valid() {
			return &ParseError{Line: line, Text: text, Err: errUnknownKind}
		}
		out = append(out, Event{Kind: kindFromCode(vals[0]), A: vals[1], B: vals[2]})
		return nil
	})
	return out, err
}
