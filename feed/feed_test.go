package feed

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorganca/valord/internal/testutil"
)

const events = `
# seed
{"op":"put","key":"alice","name":"Alice","score":10}
{"op":"put","key":"bob","name":"Bob","score":20}
{"op":"add","key":"alice","score":15}
{"op":"add","key":"carol","name":"Carol","score":5}

{"op":"del","key":"bob"}
`

func TestReplay(t *testing.T) {
	testutil.LogToTest(t)

	b := NewBoard()
	n, err := Replay(context.Background(), strings.NewReader(events), b, Options{Check: true})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, []string{"carol", "alice"}, b.Keys())
	alice, ok := b.Get("alice")
	require.True(t, ok)
	assert.Equal(t, Record{Name: "Alice", Score: 25}, alice)
	assert.False(t, b.Contains("bob"))
}

func TestDecoderErrors(t *testing.T) {
	cases := map[string]struct {
		input string
		err   error
		line  int
	}{
		"unknown op":  {`{"op":"inc","key":"a"}`, ErrUnknownOp, 1},
		"missing key": {"\n" + `{"op":"put","score":1}`, ErrMissingKey, 2},
		"bad json":    {`{"op":`, nil, 1},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := NewDecoder(strings.NewReader(tc.input))
			_, err := d.Next()
			require.Error(t, err)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
			assert.Contains(t, err.Error(), "line ")
			assert.Equal(t, tc.line, d.Line())
		})
	}
}

func TestDecoderEOF(t *testing.T) {
	d := NewDecoder(strings.NewReader("# nothing\n\n"))
	_, err := d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReplayStopsOnError(t *testing.T) {
	input := `{"op":"put","key":"a","score":1}
{"op":"bogus","key":"b"}
{"op":"put","key":"c","score":3}`

	b := NewBoard()
	n, err := Replay(context.Background(), strings.NewReader(input), b, Options{})
	assert.ErrorIs(t, err, ErrUnknownOp)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, b.Len())
}

func TestReplayCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBoard()
	n, err := Replay(ctx, strings.NewReader(events), b, Options{Interval: time.Hour})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, n)
}

func TestReplayInterval(t *testing.T) {
	b := NewBoard()
	start := time.Now()
	n, err := Replay(context.Background(), strings.NewReader(events), b, Options{Interval: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestApplyValidates(t *testing.T) {
	b := NewBoard()
	assert.ErrorIs(t, Event{Op: OpPut}.Apply(b), ErrMissingKey)
	assert.ErrorIs(t, Event{Op: "x", Key: "k"}.Apply(b), ErrUnknownOp)
	assert.Zero(t, b.Len())

	require.NoError(t, Event{Op: OpAdd, Key: "k", Score: 2}.Apply(b))
	require.NoError(t, Event{Op: OpAdd, Key: "k", Name: "K", Score: -5}.Apply(b))
	r, _ := b.Get("k")
	assert.Equal(t, Record{Name: "K", Score: -3}, r)
}
