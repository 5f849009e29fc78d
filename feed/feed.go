// Package feed applies a stream of keyed score events to a valord map.
//
// Events are JSON objects, one per line:
//
//	{"op":"put","key":"alice","name":"Alice","score":10}
//	{"op":"add","key":"alice","score":5}
//	{"op":"del","key":"alice"}
//
// put stores a record, replacing any previous one; add adds score to an
// existing record in place, creating it if absent; del removes the key.
// Blank lines and lines starting with # are skipped.
package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/jmorganca/valord/logutil"
	"github.com/jmorganca/valord/valord"
)

var (
	ErrUnknownOp  = errors.New("unknown op")
	ErrMissingKey = errors.New("missing key")
)

// Record is the value stored per key. Records are ordered by score.
type Record struct {
	Name  string `json:"name,omitempty"`
	Score int64  `json:"score"`
}

func (r Record) OrdBy() int64 {
	return r.Score
}

// Board is a map of records ordered by score.
type Board = valord.Map[string, int64, Record]

func NewBoard() *Board {
	return valord.New[string, int64, Record]()
}

type Op string

const (
	OpPut Op = "put"
	OpAdd Op = "add"
	OpDel Op = "del"
)

type Event struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Score int64  `json:"score,omitempty"`
}

func (e Event) Validate() error {
	if e.Key == "" {
		return ErrMissingKey
	}
	switch e.Op {
	case OpPut, OpAdd, OpDel:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, e.Op)
	}
}

// Apply performs e against b.
func (e Event) Apply(b *Board) error {
	if err := e.Validate(); err != nil {
		return err
	}

	switch e.Op {
	case OpPut:
		b.Insert(e.Key, Record{Name: e.Name, Score: e.Score})
	case OpDel:
		b.Remove(e.Key)
	case OpAdd:
		b.Entry(e.Key).
			AndModify(func(r *Record) {
				r.Score += e.Score
				if e.Name != "" {
					r.Name = e.Name
				}
			}).
			OrInsertWith(func() Record { return Record{Name: e.Name, Score: e.Score} }).
			Release()
	}
	return nil
}

// Decoder reads events from a line-oriented stream.
type Decoder struct {
	sc   *bufio.Scanner
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{sc: bufio.NewScanner(r)}
}

// Line returns the number of the line last read.
func (d *Decoder) Line() int {
	return d.line
}

// Next returns the next event, or io.EOF at the end of the stream.
func (d *Decoder) Next() (Event, error) {
	for d.sc.Scan() {
		d.line++
		line := bytes.TrimSpace(d.sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return Event{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		if err := e.Validate(); err != nil {
			return Event{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		return e, nil
	}
	if err := d.sc.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// All yields every event in r. Iteration stops after the first error.
func (d *Decoder) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			e, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

type Options struct {
	// Interval is the pause before each event after the first.
	Interval time.Duration
	// Check verifies the board's index invariants after every event.
	Check bool
}

// Replay applies every event in r to b and returns how many were applied.
// It stops at the first decoding or invariant error, or when ctx is done.
func Replay(ctx context.Context, r io.Reader, b *Board, opts Options) (int, error) {
	var n int
	for e, err := range NewDecoder(r).All() {
		if err != nil {
			return n, err
		}

		if n > 0 && opts.Interval > 0 {
			select {
			case <-time.After(opts.Interval):
			case <-ctx.Done():
				return n, ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return n, err
		}

		if err := e.Apply(b); err != nil {
			return n, err
		}
		n++
		logutil.Trace("feed: applied", "op", e.Op, "key", e.Key, "len", b.Len())

		if opts.Check {
			if err := b.Check(); err != nil {
				return n, fmt.Errorf("after %s %q: %w", e.Op, e.Key, err)
			}
		}
	}
	return n, nil
}
